package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Terminal Sync Status ===")
	c.io.Println()

	if c.syncService == nil {
		c.io.Println("Status: Not registered")
		c.io.Println()
		c.io.Println("Run 'vaultsync-terminal register' to pair this terminal with the store server.")
		return nil
	}

	status, err := c.syncService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}

	identity, err := c.metadata.Identity(ctx)
	if err != nil {
		return fmt.Errorf("failed to load terminal identity: %w", err)
	}

	c.io.Printf("Node name: %s\n", status.NodeName)
	c.io.Printf("Node ID:   %s\n", status.NodeID)
	c.io.Printf("Token expires: %s\n", identity.ExpiresAt.Format(time.RFC3339))
	if remaining := time.Until(identity.ExpiresAt); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please run 'vaultsync-terminal register' again.")
	}

	c.io.Println()
	if status.LastSyncAt.IsZero() {
		c.io.Println("Last sync: never")
	} else {
		c.io.Printf("Last sync: %s\n", status.LastSyncAt.Format(time.RFC3339))
	}
	c.io.Printf("Watermark: %d\n", status.Watermark)
	if status.InProgress {
		c.io.Println("Sync cycle is running right now.")
	}

	c.io.Println()
	if status.QueuedChanges > 0 {
		c.io.Printf("⚠️  Pending sync: %d record(s) waiting to be pushed\n", status.QueuedChanges)
		c.io.Println("Run 'vaultsync-terminal sync' to synchronize with the server.")
	} else {
		c.io.Println("✓ All local changes pushed to the server")
	}
	if status.PendingConflicts > 0 {
		c.io.Printf("⚠️  Open conflicts: %d\n", status.PendingConflicts)
		c.io.Println("Run 'vaultsync-terminal conflicts' to review them.")
	}

	// Состояние сервера показываем по возможности: касса может быть офлайн,
	// и это не ошибка статуса.
	serverStatus, err := c.apiClient.Status(ctx, identity.Token)
	if err != nil {
		c.io.Println()
		c.io.Printf("Server: unreachable (%v)\n", err)
		return nil
	}

	c.io.Println()
	c.io.Println("Server: reachable")
	c.io.Printf("  Server node:       %s\n", serverStatus.ServerNodeID)
	c.io.Printf("  Latest sequence:   %d\n", serverStatus.LatestSequence)
	c.io.Printf("  Pending conflicts: %d\n", serverStatus.PendingConflicts)
	c.io.Printf("  Registered nodes:  %d\n", serverStatus.RegisteredNodes)

	return nil
}
