package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/iudanet/vaultsync/internal/models"
)

// NodeNamePattern определяет допустимый формат имени узла
// Только латинские буквы (a-z, A-Z), цифры (0-9), дефис (-), нижнее подчеркивание (_)
// Длина: 3-32 символа
var NodeNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

const (
	// MinNodeNameLen минимальная длина имени узла
	MinNodeNameLen = 3
	// MaxNodeNameLen максимальная длина имени узла
	MaxNodeNameLen = 32
	// MaxPayloadSize максимальный размер полезной нагрузки записи в байтах
	MaxPayloadSize = 256 * 1024
)

// ValidateNodeName проверяет, что имя узла соответствует требованиям.
// Формат: латинские буквы, цифры, дефис, нижнее подчеркивание; 3-32 символа.
func ValidateNodeName(name string) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if len(name) < MinNodeNameLen {
		return fmt.Errorf("node name must be at least %d characters long", MinNodeNameLen)
	}

	if len(name) > MaxNodeNameLen {
		return fmt.Errorf("node name must not exceed %d characters", MaxNodeNameLen)
	}

	if !NodeNamePattern.MatchString(name) {
		return fmt.Errorf("node name can only contain letters (a-z, A-Z), numbers (0-9), hyphens (-), and underscores (_)")
	}

	return nil
}

// ValidateRecord проверяет форму записи изменения перед применением.
// Проверяется все, что не требует знания текущего состояния: идентификатор,
// тип, операция, наличие полезной нагрузки. Контрольную сумму и причинный
// порядок проверяет журнал изменений.
func ValidateRecord(rec *models.ChangeRecord) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if rec.RecordID == "" {
		return fmt.Errorf("record id cannot be empty")
	}

	if _, err := uuid.Parse(rec.RecordID); err != nil {
		return fmt.Errorf("record id must be a valid UUID: %w", err)
	}

	if !models.ValidRecordType(rec.RecordType) {
		return fmt.Errorf("unknown record type %q", rec.RecordType)
	}

	if !models.ValidOperation(rec.Operation) {
		return fmt.Errorf("unknown operation %q", rec.Operation)
	}

	// Delete может идти без полезной нагрузки, insert и update - нет
	if rec.Operation != models.OperationDelete && len(rec.Payload) == 0 {
		return fmt.Errorf("operation %s requires a payload", rec.Operation)
	}

	if len(rec.Payload) > MaxPayloadSize {
		return fmt.Errorf("payload exceeds %d bytes", MaxPayloadSize)
	}

	if len(rec.Clock) == 0 {
		return fmt.Errorf("record must carry a vector timestamp")
	}

	return nil
}
