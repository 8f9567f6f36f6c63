package models

import "time"

// Analysis is one completed classification, written exactly once and never
// updated. The clinic may be deleted independently; the row is kept for audit.
type Analysis struct {
	ID           int64                `db:"id"             json:"id"`
	ClinicAPIKey string               `db:"clinic_api_key" json:"clinic_api_key"`
	ClientEmail  string               `db:"client_email"   json:"client_email"`
	Result       ClassificationResult `db:"result"         json:"result"`
	Timestamp    time.Time            `db:"timestamp"      json:"timestamp"`
}
