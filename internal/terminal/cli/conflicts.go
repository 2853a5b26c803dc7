package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
)

// conflictView - плоское представление конфликта для консольного шаблона
type conflictView struct {
	ID          string
	RecordType  string
	RecordID    string
	DetectedAt  string
	Status      string
	Strategy    string
	LocalClock  string
	RemoteClock string
	LocalData   string
	RemoteData  string
}

func (c *Cli) runConflicts(ctx context.Context, args []string) error {
	svc, err := c.requireService()
	if err != nil {
		return err
	}

	status := models.ResolutionPending
	if len(args) > 0 {
		switch args[0] {
		case "pending", "resolved", "ignored":
			status = models.ResolutionStatus(args[0])
		case "all":
			status = ""
		default:
			return fmt.Errorf("unknown conflict status %q (expected pending, resolved, ignored or all)", args[0])
		}
	}

	conflicts, err := svc.ListConflicts(ctx, status, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	views := make([]conflictView, 0, len(conflicts))
	for _, cf := range conflicts {
		views = append(views, conflictView{
			ID:          cf.ID,
			RecordType:  string(cf.RecordType),
			RecordID:    cf.RecordID,
			DetectedAt:  cf.DetectedAt.Format(time.RFC3339),
			Status:      string(cf.Status),
			Strategy:    string(cf.Strategy),
			LocalClock:  cf.Local.Clock.String(),
			RemoteClock: cf.Remote.Clock.String(),
			LocalData:   previewJSON(cf.Local.Payload),
			RemoteData:  previewJSON(cf.Remote.Payload),
		})
	}

	return c.renderTemplate(conflictListTemplate, views)
}

func (c *Cli) runResolve(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: vaultsync-terminal resolve <conflict-id>")
	}
	conflictID := args[0]

	svc, err := c.requireService()
	if err != nil {
		return err
	}

	c.io.Println("=== Conflict Resolution ===")
	c.io.Println()

	answer, err := c.io.ReadInput("Strategy (local_wins / remote_wins / manual): ")
	if err != nil {
		return fmt.Errorf("failed to read strategy: %w", err)
	}
	strategy := models.Strategy(answer)
	if !models.ValidStrategy(strategy) {
		return fmt.Errorf("unknown strategy %q", answer)
	}

	// Для ручной стратегии оператор вводит объединенное состояние сам
	var mergedData json.RawMessage
	if strategy == models.StrategyManual {
		input, err := c.io.ReadInput("Merged payload (JSON): ")
		if err != nil {
			return fmt.Errorf("failed to read merged payload: %w", err)
		}
		if input == "" {
			return fmt.Errorf("manual strategy requires a merged payload")
		}
		if !json.Valid([]byte(input)) {
			return fmt.Errorf("merged payload must be valid JSON")
		}
		mergedData = json.RawMessage(input)
	}

	winner, err := svc.ResolveConflict(ctx, conflictID, strategy, mergedData)
	if err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Conflict resolved!")
	c.io.Printf("Record:       %s/%s\n", winner.RecordType, winner.RecordID)
	c.io.Printf("Winner clock: %s\n", winner.Clock.String())
	c.io.Println()
	c.io.Println("The winning record was queued for the next sync cycle.")
	c.io.Println("Run 'vaultsync-terminal sync' to push it to the server.")

	return nil
}
