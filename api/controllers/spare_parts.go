package controllers

import (
	"net/http"

	"github.com/smartpark-rw/sims-backend/api/responses"
	"github.com/smartpark-rw/sims-backend/api/validators"
	"github.com/smartpark-rw/sims-backend/internal/parts"
	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
	"github.com/smartpark-rw/sims-backend/pkg/logger"
)

// CreateSparePart handles POST /api/spare-parts.
func CreateSparePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable"))
			return
		}

		var body parts.CreateSparePartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateSparePart(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Spare part created successfully", created)
	}
}

// ListSpareParts handles GET /api/spare-parts.
func ListSpareParts(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable"))
			return
		}

		listed, err := svc.ListSpareParts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}
