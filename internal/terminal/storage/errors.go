package storage

import "errors"

// Общие ошибки кассового хранилища
var (
	// ErrNotRegistered касса еще не зарегистрирована на сервере
	ErrNotRegistered = errors.New("terminal is not registered")

	// ErrQueueItemNotFound элемент очереди отправки не найден
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrRecordNotFound примененная запись не найдена
	ErrRecordNotFound = errors.New("record not found")

	// ErrConflictNotFound конфликт не найден
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrConflictResolved конфликт уже разрешен
	ErrConflictResolved = errors.New("conflict already resolved")

	// ErrStorageClosed хранилище закрыто
	ErrStorageClosed = errors.New("storage is closed")
)
