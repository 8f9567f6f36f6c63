package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/prohair-dev/trichoscan/internal/api/response"
	"github.com/prohair-dev/trichoscan/internal/quota"
	"github.com/prohair-dev/trichoscan/internal/store"
	"github.com/prohair-dev/trichoscan/internal/vision"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// maxUploadBytes caps the whole multipart body; four photos plus form fields.
const maxUploadBytes = 40 << 20

// viewFields are the four required upload fields, in grid order.
var viewFields = [4]string{"front", "top", "side", "back"}

// Analyzer defines the interface the handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, params vision.AnalyzeParams) (models.ClassificationResult, error)
}

// consentGiven accepts the encodings the widget has historically sent: the
// plain HTML checkbox serializes as "on", scripted clients send "true"/"1".
func consentGiven(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /analyze.
// Success responses are the bare ClassificationResult object; the widget
// depends on the "stade" wire name.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.Detail(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		if !consentGiven(r.FormValue("consent")) {
			response.Detail(w, http.StatusBadRequest, "You must consent to the use of your data.")
			return
		}

		apiKey := r.FormValue("api_key")
		if apiKey == "" {
			response.Detail(w, http.StatusBadRequest, "api_key is required")
			return
		}
		clientEmail := r.FormValue("client_email")
		if clientEmail == "" {
			response.Detail(w, http.StatusBadRequest, "client_email is required")
			return
		}

		views := make([][]byte, 0, len(viewFields))
		for _, field := range viewFields {
			file, _, err := r.FormFile(field)
			if err != nil {
				response.Detail(w, http.StatusBadRequest, field+" image is required")
				return
			}
			raw, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				response.Detail(w, http.StatusBadRequest, "could not read "+field+" image")
				return
			}
			views = append(views, raw)
		}

		result, err := svc.Analyze(r.Context(), vision.AnalyzeParams{
			APIKey:      apiKey,
			ClientEmail: clientEmail,
			Views:       views,
		})
		if err != nil {
			writeAnalyzeError(w, err)
			return
		}

		response.JSON(w, http.StatusOK, result)
	}
}

// writeAnalyzeError translates pipeline errors into the status table the
// widget knows. This is the only place analysis errors are decided.
func writeAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Detail(w, http.StatusNotFound, "Clinic not found")
	case errors.Is(err, quota.ErrExhausted):
		response.Detail(w, http.StatusForbidden, "Analysis quota exhausted")
	case errors.Is(err, quota.ErrNotConfigured):
		response.Detail(w, http.StatusBadRequest, "Quota is not defined for this clinic")
	case errors.Is(err, vision.ErrInvalidResponse):
		// Raw upstream content rides along in the error for diagnosability.
		response.Detail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, vision.ErrInferenceTimeout):
		response.Detail(w, http.StatusInternalServerError, "Classification timed out")
	case errors.Is(err, vision.ErrProviderUnavailable):
		response.Detail(w, http.StatusInternalServerError, "Classification service unavailable")
	default:
		response.Detail(w, http.StatusInternalServerError, err.Error())
	}
}
