package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	svc, err := c.requireService()
	if err != nil {
		return err
	}

	c.io.Println("Starting synchronization with the store server...")

	result, err := svc.Cycle(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Synchronization completed successfully!")
	c.io.Println()
	c.io.Printf("Pushed to server:   %d record(s)\n", result.Pushed)
	if result.Pushed > 0 {
		c.io.Printf("  applied:          %d\n", result.Applied)
		c.io.Printf("  stale:            %d\n", result.Stale)
	}
	c.io.Printf("Pulled from server: %d record(s)\n", result.Pulled)
	if result.Pulled > 0 {
		c.io.Printf("  applied locally:  %d\n", result.PulledApplied)
		c.io.Printf("  already known:    %d\n", result.PulledStale)
	}
	c.io.Printf("Server watermark:   %d\n", result.Watermark)

	// Конфликтные и отклоненные записи требуют внимания оператора
	if result.Conflicted > 0 || result.LocalConflicts > 0 {
		c.io.Println()
		c.io.Printf("⚠️  Concurrent changes detected: %d on server, %d locally.\n",
			result.Conflicted, result.LocalConflicts)
		c.io.Println("Run 'vaultsync-terminal conflicts' to review them.")
	}
	if result.Rejected > 0 {
		c.io.Println()
		c.io.Printf("⚠️  %d record(s) rejected by the server.\n", result.Rejected)
		c.io.Println("Run 'vaultsync-terminal queue' to inspect failed records.")
	}

	return nil
}

// runDaemon держит кассу синхронизированной в фоне до сигнала остановки.
func (c *Cli) runDaemon(ctx context.Context) error {
	c.io.Println("=== Background Synchronization ===")
	c.io.Println()

	svc, err := c.requireService()
	if err != nil {
		return err
	}

	status, err := svc.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}

	c.io.Printf("Node:     %s (%s)\n", status.NodeName, status.NodeID)
	c.io.Printf("Interval: %s\n", c.syncInterval)
	c.io.Println()
	c.io.Println("Press Ctrl+C to stop.")

	if err := svc.Run(ctx, c.syncInterval); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Background synchronization stopped.")
	return nil
}
