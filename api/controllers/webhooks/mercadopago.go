package webhooks

import (
	"encoding/json"
	"net/http"

	mpwebhook "github.com/fedegimenez/amaro-backend/internal/webhooks/mercadopago"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

// MercadoPagoWebhook receives gateway payment notifications. Anything short
// of an unreadable payload is acknowledged with 200; returning an error for a
// business-level problem would only make the gateway re-deliver an event we
// cannot act on.
func MercadoPagoWebhook(svc mpwebhook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var event mpwebhook.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			if logg != nil {
				logg.Error(ctx, "webhook payload decode failed", err)
			}
			writeAck(w, http.StatusInternalServerError)
			return
		}

		if svc != nil {
			svc.Process(ctx, event)
		}

		writeAck(w, http.StatusOK)
	}
}

func writeAck(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
