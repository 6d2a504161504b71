package transaction

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/events"
)

// replaySubscriber hands out a closed channel holding a fixed set of events, so the stream
// ends once they are sent.
type replaySubscriber struct {
	events    []events.Event
	owner     uuid.UUID
	cancelled bool
}

func (r *replaySubscriber) Subscribe(owner uuid.UUID) (<-chan events.Event, func()) {
	r.owner = owner
	ch := make(chan events.Event, len(r.events))
	for _, e := range r.events {
		ch <- e
	}
	close(ch)
	return ch, func() { r.cancelled = true }
}

func TestHTTP_TransactionEvents(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	txID := uuid.Must(uuid.NewV4())
	at := time.Date(2025, 11, 18, 10, 0, 0, 0, time.UTC)
	sub := &replaySubscriber{events: []events.Event{
		{Type: events.TransactionCreated, OwnerID: owner, TransactionID: txID, OccurredAt: at},
		{Type: events.TransactionDeleted, OwnerID: owner, TransactionID: txID, OccurredAt: at},
	}}

	_, api := humatest.New(t)
	api.UseMiddleware(auth.Middleware(api, stubVerifier{owner: owner}))
	NewEventsHandler(sub).Register(api)

	resp := api.Get("/v1/transactions/events", bearer)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/event-stream")
	assert.Equal(t, owner, sub.owner)
	assert.True(t, sub.cancelled)

	var messages []ChangeMessage
	scanner := bufio.NewScanner(strings.NewReader(resp.Body.String()))
	for scanner.Scan() {
		line := scanner.Text()
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var msg ChangeMessage
			require.NoError(t, json.Unmarshal([]byte(data), &msg))
			messages = append(messages, msg)
		}
	}
	require.Len(t, messages, 2)
	assert.Equal(t, "transaction.created", messages[0].Type)
	assert.Equal(t, txID.String(), messages[0].TransactionID)
	assert.Equal(t, "2025-11-18T10:00:00Z", messages[0].OccurredAt)
	assert.Equal(t, "transaction.deleted", messages[1].Type)
}

func TestHTTP_TransactionEvents_RequiresAuth(t *testing.T) {
	sub := &replaySubscriber{}
	_, api := humatest.New(t)
	api.UseMiddleware(auth.Middleware(api, stubVerifier{owner: uuid.Must(uuid.NewV4())}))
	NewEventsHandler(sub).Register(api)

	resp := api.Get("/v1/transactions/events")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, uuid.Nil, sub.owner)
}
