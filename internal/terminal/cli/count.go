package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/pkg/api"
)

// discrepancyView - плоское представление расхождения для консольного шаблона
type discrepancyView struct {
	ID           string
	ConflictType string
	Severity     string
	ProductUUID  string
	Condition    string
	Expected     int64
	Actual       int64
	Variance     int64
	Status       string
	Notes        string
}

func discrepancyViews(items []api.Discrepancy) []discrepancyView {
	views := make([]discrepancyView, 0, len(items))
	for _, d := range items {
		views = append(views, discrepancyView{
			ID:           d.ID,
			ConflictType: d.ConflictType,
			Severity:     d.Severity,
			ProductUUID:  d.ProductUUID,
			Condition:    d.Condition,
			Expected:     d.Expected,
			Actual:       d.Actual,
			Variance:     d.Variance,
			Status:       d.Status,
			Notes:        d.Notes,
		})
	}
	return views
}

// runCount проводит слепой пересчет: кассир вводит фактические количества,
// не видя ожидаемых остатков. Сервер сам сравнит и вернет расхождения.
func (c *Cli) runCount(ctx context.Context) error {
	c.io.Println("=== Blind Inventory Count ===")
	c.io.Println()

	identity, err := c.requireIdentity(ctx)
	if err != nil {
		return err
	}

	locationTag, err := c.io.ReadInput("Location tag (e.g. shelf-A3): ")
	if err != nil {
		return fmt.Errorf("failed to read location tag: %w", err)
	}
	if locationTag == "" {
		return fmt.Errorf("location tag cannot be empty")
	}

	c.io.Println()
	c.io.Println("Enter counted items. An empty product UUID finishes the list.")
	c.io.Println()

	var items []api.BlindCountItem
	for {
		c.io.Printf("Item %d:\n", len(items)+1)

		productUUID, err := c.io.ReadInput("  Product UUID: ")
		if err != nil {
			return fmt.Errorf("failed to read product UUID: %w", err)
		}
		if productUUID == "" {
			break
		}

		condInput, err := c.io.ReadInput("  Condition (NM, LP, MP, HP, DMG): ")
		if err != nil {
			return fmt.Errorf("failed to read condition: %w", err)
		}
		if !models.ValidCondition(models.Condition(condInput)) {
			return fmt.Errorf("unknown condition %q", condInput)
		}

		qtyInput, err := c.io.ReadInput("  Counted quantity: ")
		if err != nil {
			return fmt.Errorf("failed to read quantity: %w", err)
		}
		qty, err := strconv.ParseInt(qtyInput, 10, 64)
		if err != nil {
			return fmt.Errorf("quantity must be a whole number: %w", err)
		}
		if qty < 0 {
			return fmt.Errorf("quantity cannot be negative")
		}

		items = append(items, api.BlindCountItem{
			ProductUUID:     productUUID,
			Condition:       condInput,
			CountedQuantity: qty,
		})
	}

	if len(items) == 0 {
		return fmt.Errorf("at least one counted item is required")
	}

	c.io.Println()
	c.io.Printf("Submitting blind count (%d item(s))...\n", len(items))

	resp, err := c.apiClient.SubmitBlindCount(ctx, identity.Token, api.BlindCountRequest{
		LocationTag: locationTag,
		Items:       items,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Count session %s recorded: %d item(s).\n", resp.SessionID, resp.ItemsCounted)

	if len(resp.Discrepancies) == 0 {
		c.io.Println("✓ No discrepancies: counted quantities match expected stock.")
		return nil
	}

	c.io.Println()
	c.io.Printf("⚠️  %d discrepancy(ies) detected:\n", len(resp.Discrepancies))
	if err := c.renderTemplate(discrepancyListTemplate, discrepancyViews(resp.Discrepancies)); err != nil {
		return err
	}
	c.io.Println("Use 'vaultsync-terminal discrepancies resolve <id>' to close them.")

	return nil
}
