package operator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage   *storage.Storage
	queue     chan ActionItem
	publisher events.Publisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewOperator(s *storage.Storage, queue chan ActionItem, publisher events.Publisher, logger *logrus.Logger) *Operator {
	return &Operator{
		storage:   s,
		queue:     queue,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// The caller gave up while the item sat in the queue.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			o.logger.WithError(rbErr).Warn("Operator.processItem.rollback")
		}
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	o.publish(item.action)
	item.response <- ActionItemResponse{}
}

func (o *Operator) publish(action actions.IAction) {
	if o.publisher == nil {
		return
	}
	notifier, ok := action.(actions.INotifier)
	if !ok {
		return
	}
	for _, event := range notifier.Events() {
		if event.OccurredAt.IsZero() {
			event.OccurredAt = o.now().UTC()
		}
		o.publisher.Publish(event)
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
