package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/internal/validation"
	"github.com/iudanet/vaultsync/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Terminal Registration ===")
	c.io.Println()

	// Повторная регистрация выдаст кассе новый NodeID. Старые записи
	// останутся под прежним идентификатором, поэтому спрашиваем явно.
	existing, err := c.metadata.Identity(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotRegistered) {
		return fmt.Errorf("failed to check registration: %w", err)
	}
	if existing != nil {
		c.io.Printf("⚠️  This terminal is already registered as %s (%s).\n", existing.NodeName, existing.NodeID)
		c.io.Println("   Re-registering assigns a NEW node identity.")
		c.io.Println()
		answer, err := c.io.ReadInput("Continue and obtain a new identity? (yes/no): ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if answer != "yes" {
			c.io.Println("Registration cancelled.")
			return nil
		}
		c.io.Println()
	}

	// Запрашиваем имя кассы
	name, err := c.io.ReadInput("Node name (e.g. kassa-1): ")
	if err != nil {
		return fmt.Errorf("failed to read node name: %w", err)
	}
	if err := validation.ValidateNodeName(name); err != nil {
		return fmt.Errorf("invalid node name: %w", err)
	}

	// Ключ подключения вводится как пароль, без отображения
	joinKey, err := c.io.ReadPassword("Join key: ")
	if err != nil {
		return fmt.Errorf("failed to read join key: %w", err)
	}
	if joinKey == "" {
		return fmt.Errorf("join key cannot be empty")
	}

	c.io.Println()
	c.io.Println("Registering terminal on the store server...")

	resp, err := c.apiClient.Register(ctx, api.RegisterNodeRequest{
		Name:    name,
		JoinKey: joinKey,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	identity := &storage.Identity{
		RegisteredAt: now,
		ExpiresAt:    now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		NodeID:       resp.NodeID,
		NodeName:     name,
		Token:        resp.Token,
	}
	if err := c.metadata.SaveIdentity(ctx, identity); err != nil {
		return fmt.Errorf("failed to save terminal identity: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Node ID:       %s\n", identity.NodeID)
	c.io.Printf("Node name:     %s\n", identity.NodeName)
	c.io.Printf("Token expires: %s\n", identity.ExpiresAt.Format(time.RFC3339))
	c.io.Println()
	c.io.Println("⚠️  IMPORTANT: The node ID identifies this terminal in every change record.")
	c.io.Println("   Do not re-register unless the token was lost or revoked.")
	c.io.Println()
	c.io.Println("Please run 'vaultsync-terminal sync' for the first synchronization.")

	return nil
}
