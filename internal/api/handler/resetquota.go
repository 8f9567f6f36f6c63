package handler

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/prohair-dev/trichoscan/internal/api/response"
	"github.com/prohair-dev/trichoscan/internal/store"
)

// NewResetQuotaHandler returns an http.HandlerFunc for POST /reset_quota.
// The form's admin_key must match the configured secret; on success the
// clinic's remaining counter goes back to its default, leaving the cycle
// start untouched.
func NewResetQuotaHandler(st store.Store, adminKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			response.Detail(w, http.StatusBadRequest, "Invalid form body")
			return
		}

		if subtle.ConstantTimeCompare([]byte(r.FormValue("admin_key")), []byte(adminKey)) != 1 {
			response.Detail(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}

		apiKey := r.FormValue("api_key")
		if apiKey == "" {
			response.Detail(w, http.StatusBadRequest, "api_key is required")
			return
		}

		clinic, err := st.GetClinic(r.Context(), apiKey)
		if errors.Is(err, store.ErrNotFound) {
			response.Detail(w, http.StatusNotFound, "Clinic not found")
			return
		}
		if err != nil {
			response.Detail(w, http.StatusInternalServerError, "Failed to load clinic")
			return
		}

		if clinic.QuotaDefault == nil {
			response.Detail(w, http.StatusBadRequest, "Quota is not defined for this clinic")
			return
		}

		if err := st.SetQuota(r.Context(), apiKey, *clinic.QuotaDefault, nil); err != nil {
			response.Detail(w, http.StatusInternalServerError, "Failed to reset quota")
			return
		}

		response.JSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": fmt.Sprintf("Quota reset to %d for clinic %s", *clinic.QuotaDefault, apiKey),
		})
	}
}
