// Package models contains shared data models used across the TrichoScan codebase.
package models

import "time"

// Clinic is a tenant account. The api_key doubles as the primary key and is
// handed out to the clinic when the embeddable widget is installed.
type Clinic struct {
	APIKey            string            `db:"api_key"            json:"api_key"`
	ContactEmail      *string           `db:"email_clinique"     json:"email_clinique,omitempty"`
	Pricing           map[string]int    `db:"pricing"            json:"pricing"`
	QuotaRemaining    int               `db:"analysis_quota"     json:"analysis_quota"`
	QuotaDefault      *int              `db:"default_quota"      json:"default_quota,omitempty"`
	SubscriptionStart *time.Time        `db:"subscription_start" json:"subscription_start,omitempty"`
}
