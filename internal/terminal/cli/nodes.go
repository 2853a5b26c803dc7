package cli

import (
	"context"
	"time"
)

// nodeView - плоское представление кассы для консольного шаблона
type nodeView struct {
	ID           string
	Name         string
	RegisteredAt string
	LastSeenAt   string
}

func (c *Cli) runNodes(ctx context.Context) error {
	identity, err := c.requireIdentity(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ListNodes(ctx, identity.Token)
	if err != nil {
		return err
	}

	views := make([]nodeView, 0, len(resp.Nodes))
	for _, n := range resp.Nodes {
		lastSeen := "never"
		if !n.LastSeenAt.IsZero() {
			lastSeen = n.LastSeenAt.Format(time.RFC3339)
		}
		views = append(views, nodeView{
			ID:           n.ID,
			Name:         n.Name,
			RegisteredAt: n.RegisteredAt.Format(time.RFC3339),
			LastSeenAt:   lastSeen,
		})
	}

	return c.renderTemplate(nodeListTemplate, views)
}
