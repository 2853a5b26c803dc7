package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/vaultsync/pkg/api"
)

func (c *Cli) runDiscrepancies(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "resolve" {
		return c.runResolveDiscrepancy(ctx, args[1:])
	}

	status := "pending"
	sessionID := ""
	if len(args) > 0 {
		switch args[0] {
		case "pending", "resolved", "ignored":
			status = args[0]
		case "all":
			status = ""
		case "session":
			if len(args) < 2 {
				return fmt.Errorf("usage: vaultsync-terminal discrepancies session <session-id>")
			}
			status = ""
			sessionID = args[1]
		default:
			return fmt.Errorf("unknown discrepancy status %q (expected pending, resolved, ignored, all or session <id>)", args[0])
		}
	}

	identity, err := c.requireIdentity(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ListDiscrepancies(ctx, identity.Token, status, sessionID, listLimit)
	if err != nil {
		return err
	}

	c.io.Println("=== Audit Discrepancies ===")
	return c.renderTemplate(discrepancyListTemplate, discrepancyViews(resp.Discrepancies))
}

func (c *Cli) runResolveDiscrepancy(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: vaultsync-terminal discrepancies resolve <discrepancy-id>")
	}
	discrepancyID := args[0]

	identity, err := c.requireIdentity(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Resolve Discrepancy ===")
	c.io.Println()

	decision, err := c.io.ReadInput("Decision (resolved / ignored): ")
	if err != nil {
		return fmt.Errorf("failed to read decision: %w", err)
	}
	if decision != "resolved" && decision != "ignored" {
		return fmt.Errorf("unknown decision %q (expected resolved or ignored)", decision)
	}

	notes, err := c.io.ReadInput("Notes (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	resp, err := c.apiClient.ResolveDiscrepancy(ctx, identity.Token, discrepancyID, api.ResolveDiscrepancyRequest{
		Status: decision,
		Notes:  notes,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Discrepancy %s marked %s.\n", resp.ID, resp.Status)

	return nil
}
