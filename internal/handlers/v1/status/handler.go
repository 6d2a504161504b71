package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carson-networks/expense-server/internal/logging"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// Handler reports liveness. With a database configured it also checks the connection.
type Handler struct {
	DB pinger
}

func NewHandler(db pinger) Handler {
	return Handler{DB: db}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	if h.DB != nil {
		stop := logData.AddTiming("pingMs")
		err := h.DB.PingContext(req.Context())
		stop()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return fmt.Errorf("status: database unreachable: %w", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
