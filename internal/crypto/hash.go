package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// checksumSeparator разделяет поля записи в канонической форме.
// Разделитель исключает коллизии при склейке полей переменной длины.
const checksumSeparator = "|"

// RecordChecksum вычисляет SHA256 контрольную сумму записи изменения.
// Сумма считается от канонической формы: record_id | record_type | operation | data.
// Касса вычисляет сумму при создании записи, сервер проверяет при приеме.
func RecordChecksum(recordID, recordType, operation string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(recordID))
	h.Write([]byte(checksumSeparator))
	h.Write([]byte(recordType))
	h.Write([]byte(checksumSeparator))
	h.Write([]byte(operation))
	h.Write([]byte(checksumSeparator))
	h.Write(payload)

	return hex.EncodeToString(h.Sum(nil))
}

// VerifyRecordChecksum проверяет контрольную сумму записи.
// Пустая сумма допустима: контрольная сумма опциональна в протоколе обмена.
func VerifyRecordChecksum(recordID, recordType, operation string, payload []byte, checksum string) error {
	if checksum == "" {
		return nil
	}

	computed := RecordChecksum(recordID, recordType, operation, payload)
	if computed != checksum {
		return fmt.Errorf("checksum mismatch for record %s: expected %s, got %s",
			recordID, computed, checksum)
	}

	return nil
}
