// Package response writes the JSON bodies the widget has always consumed:
// payload objects on success and a {"detail": "..."} object on error.
package response

import (
	"encoding/json"
	"net/http"
)

type detailBody struct {
	Detail string `json:"detail"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Detail writes the error body used across every endpoint.
func Detail(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, detailBody{Detail: detail})
}
