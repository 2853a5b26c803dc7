package cli

import (
	"context"
	"fmt"
	"time"
)

// queueView - плоское представление записи очереди для консольного шаблона
type queueView struct {
	Key        uint64
	RecordType string
	RecordID   string
	Operation  string
	EnqueuedAt string
	Clock      string
	RetryCount int
	LastError  string
}

func (c *Cli) runQueue(ctx context.Context) error {
	pending, err := c.queue.Pending(ctx, listLimit)
	if err != nil {
		return fmt.Errorf("failed to read outbound queue: %w", err)
	}

	views := make([]queueView, 0, len(pending))
	for _, item := range pending {
		views = append(views, queueView{
			Key:        item.Key,
			RecordType: string(item.Record.RecordType),
			RecordID:   item.Record.RecordID,
			Operation:  string(item.Record.Operation),
			EnqueuedAt: item.EnqueuedAt.Format(time.RFC3339),
			Clock:      item.Record.Clock.String(),
			RetryCount: item.RetryCount,
			LastError:  item.LastError,
		})
	}

	return c.renderTemplate(queueListTemplate, views)
}
