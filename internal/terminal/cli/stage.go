package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/vaultsync/internal/models"
)

// runStage проводит оператора через создание локальной записи изменения.
// Обычно записи создает кассовое ПО; команда нужна для наладки и приемки.
func (c *Cli) runStage(ctx context.Context) error {
	c.io.Println("=== Stage Local Change ===")
	c.io.Println()

	svc, err := c.requireService()
	if err != nil {
		return err
	}

	typeInput, err := c.io.ReadInput("Record type (product, inventory_item, price_info, transaction, customer): ")
	if err != nil {
		return fmt.Errorf("failed to read record type: %w", err)
	}
	recordType := models.RecordType(typeInput)
	if !models.ValidRecordType(recordType) {
		return fmt.Errorf("unknown record type %q", typeInput)
	}

	recordID, err := c.io.ReadInput("Record ID (UUID, empty to generate): ")
	if err != nil {
		return fmt.Errorf("failed to read record ID: %w", err)
	}
	if recordID == "" {
		recordID = uuid.New().String()
		c.io.Printf("Generated record ID: %s\n", recordID)
	}

	opInput, err := c.io.ReadInput("Operation (insert, update, delete): ")
	if err != nil {
		return fmt.Errorf("failed to read operation: %w", err)
	}
	op := models.Operation(opInput)
	if !models.ValidOperation(op) {
		return fmt.Errorf("unknown operation %q", opInput)
	}

	payloadInput, err := c.io.ReadInput("Payload JSON (empty allowed for delete): ")
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	var payload json.RawMessage
	if payloadInput != "" {
		if !json.Valid([]byte(payloadInput)) {
			return fmt.Errorf("payload must be valid JSON")
		}
		payload = json.RawMessage(payloadInput)
	}

	rec, err := svc.Stage(ctx, recordType, recordID, op, payload)
	if err != nil {
		return fmt.Errorf("failed to stage change: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Change staged!")
	c.io.Printf("Record: %s/%s (%s)\n", rec.RecordType, rec.RecordID, rec.Operation)
	c.io.Printf("Clock:  %s\n", rec.Clock.String())
	c.io.Println()
	c.io.Println("The change was queued for the next sync cycle.")

	return nil
}
