// Package handlers contains the REST handlers for the meal-planning
// API. All endpoints operate on behalf of the default seeded user; the
// owner id is injected at construction time rather than read from auth.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mealcraft/v1/internal/infrastructure/http/middleware"
	"github.com/mealcraft/v1/internal/ports/inbound"
	"github.com/mealcraft/v1/internal/ports/outbound"
	apperrors "github.com/mealcraft/v1/pkg/errors"
)

// Handlers bundles the API handlers with their dependencies.
type Handlers struct {
	store       outbound.RecordStore
	recommender inbound.RecommendationService
	validate    *validator.Validate
	logger      *zap.Logger
	ownerID     int
}

// New creates the handler set bound to one owner.
func New(
	store outbound.RecordStore,
	recommender inbound.RecommendationService,
	logger *zap.Logger,
	ownerID int,
) *Handlers {
	return &Handlers{
		store:       store,
		recommender: recommender,
		validate:    validator.New(),
		logger:      logger.Named("handlers"),
		ownerID:     ownerID,
	}
}

// writeJSON writes a JSON response with the given status.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps an error to the standard error envelope.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Wrap(err, "request failed")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(appErr),
		)
	}
	h.writeJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, middleware.GetRequestID(r.Context())))
}

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation on it.
func (h *Handlers) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewBadRequestError("Invalid JSON body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Invalid id parameter")
	}
	return id, nil
}
