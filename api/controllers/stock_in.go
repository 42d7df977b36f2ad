package controllers

import (
	"net/http"

	"github.com/smartpark-rw/sims-backend/api/responses"
	"github.com/smartpark-rw/sims-backend/api/validators"
	"github.com/smartpark-rw/sims-backend/internal/ledger"
	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
	"github.com/smartpark-rw/sims-backend/pkg/logger"
)

// RecordStockIn handles POST /api/stock-in.
func RecordStockIn(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var body ledger.RecordStockInRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.RecordStockIn(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Stock in entry created successfully", created)
	}
}

// ListStockIns handles GET /api/stock-in.
func ListStockIns(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		listed, err := svc.ListStockIns(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}
