package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/logging"
)

// ChangeMessage is sent on the event stream for every committed change.
type ChangeMessage struct {
	Type          string `json:"type" doc:"transaction.created, transaction.updated or transaction.deleted"`
	TransactionID string `json:"transactionId" doc:"Transaction UUID"`
	OccurredAt    string `json:"occurredAt" doc:"RFC3339 time of the change"`
}

type changeSubscriber interface {
	Subscribe(owner uuid.UUID) (<-chan events.Event, func())
}

// EventsHandler handles GET /v1/transactions/events, streaming the caller's changes so clients
// can refresh without polling.
type EventsHandler struct {
	Hub changeSubscriber
}

func NewEventsHandler(hub changeSubscriber) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

func (h *EventsHandler) Register(api huma.API) {
	sse.Register(api, huma.Operation{
		OperationID: "transaction-events",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/events",
		Summary:     "Stream transaction changes",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, map[string]any{
		"change": ChangeMessage{},
	}, h.handle)
}

func (h *EventsHandler) handle(ctx context.Context, _ *struct{}, send sse.Sender) {
	ownerID, ok := auth.OwnerFromContext(ctx)
	if !ok {
		return
	}
	changes, cancel := h.Hub.Subscribe(ownerID)
	defer cancel()

	sent := 0
	defer func() {
		if logData := logging.GetLogData(ctx); logData != nil {
			logData.AddData("eventsSent", sent)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-changes:
			if !open {
				return
			}
			err := send.Data(ChangeMessage{
				Type:          string(event.Type),
				TransactionID: event.TransactionID.String(),
				OccurredAt:    event.OccurredAt.Format(time.RFC3339),
			})
			if err != nil {
				return
			}
			sent++
		}
	}
}
