package controllers

import (
	"net/http"

	"github.com/fedegimenez/amaro-backend/api/responses"
	"github.com/fedegimenez/amaro-backend/api/validators"
	"github.com/fedegimenez/amaro-backend/internal/invoices"
	ordersvc "github.com/fedegimenez/amaro-backend/internal/orders"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

// OrderInvoice renders an order's invoice as HTML.
func OrderInvoice(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Find(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		html, err := invoices.Render(order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(html)
	}
}
