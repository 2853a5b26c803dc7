package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для хеширования ключа подключения
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного ключа в байтах
	Argon2KeyLen = 32
	// SaltSize - размер соли в байтах
	SaltSize = 32
)

// GenerateSalt генерирует криптографически случайную соль указанного размера
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateSaltBase64 генерирует криптографически случайную соль и возвращает ее в Base64
func GenerateSaltBase64() (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// HashJoinKey вычисляет Argon2id хеш ключа подключения кассы.
// Сервер хранит хеш вместо самого ключа; касса предъявляет ключ
// один раз при регистрации.
func HashJoinKey(joinKey string, salt []byte) (string, error) {
	if joinKey == "" {
		return "", fmt.Errorf("join key cannot be empty")
	}
	if len(salt) != SaltSize {
		return "", fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	hash := argon2.IDKey([]byte(joinKey), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return hex.EncodeToString(hash), nil
}

// VerifyJoinKey проверяет, соответствует ли ключ подключения сохраненному хешу.
// Сравнение выполняется за постоянное время.
func VerifyJoinKey(joinKey string, salt []byte, expectedHash string) error {
	if expectedHash == "" {
		return fmt.Errorf("expected hash cannot be empty")
	}

	computed, err := HashJoinKey(joinKey, salt)
	if err != nil {
		return fmt.Errorf("failed to compute join key hash: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) != 1 {
		return fmt.Errorf("invalid join key")
	}

	return nil
}
