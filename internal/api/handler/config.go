package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prohair-dev/trichoscan/internal/api/response"
	"github.com/prohair-dev/trichoscan/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type updateConfigRequest struct {
	APIKey  string         `json:"api_key" validate:"required"`
	Email   *string        `json:"email"   validate:"omitempty,email"`
	Pricing map[string]int `json:"pricing"`
}

// NewUpdateConfigHandler returns an http.HandlerFunc for POST /update-config.
// Insert-if-absent semantics: an existing clinic gets email and pricing
// overwritten (quota untouched), a new one is seeded with the default quota.
// No distinction between create and update is surfaced.
func NewUpdateConfigHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Detail(w, http.StatusBadRequest, "Invalid JSON body: pricing must map stage labels to integer prices")
			return
		}

		if err := validate.Struct(req); err != nil {
			response.Detail(w, http.StatusBadRequest, validationDetail(err))
			return
		}

		for stage, price := range req.Pricing {
			if strings.TrimSpace(stage) == "" {
				response.Detail(w, http.StatusBadRequest, "pricing keys must be non-empty stage labels")
				return
			}
			if price < 0 {
				response.Detail(w, http.StatusBadRequest, "pricing values must not be negative")
				return
			}
		}

		if err := st.UpsertClinic(r.Context(), req.APIKey, req.Email, req.Pricing); err != nil {
			response.Detail(w, http.StatusInternalServerError, "Failed to save clinic configuration")
			return
		}

		response.JSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func validationDetail(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request"
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "APIKey":
			return "api_key is required"
		case "Email":
			return "email must be a valid email address"
		}
	}
	return "Invalid request"
}
