package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that no change record exists for the resource
	ErrRecordNotFound = errors.New("change record not found")

	// ErrConflictNotFound indicates that sync conflict was not found
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrConflictResolved indicates that conflict is already resolved or ignored
	ErrConflictResolved = errors.New("conflict already resolved")

	// ErrDiscrepancyNotFound indicates that discrepancy was not found
	ErrDiscrepancyNotFound = errors.New("discrepancy not found")

	// ErrDiscrepancyResolved indicates that discrepancy is already resolved or ignored
	ErrDiscrepancyResolved = errors.New("discrepancy already resolved")

	// ErrNodeNotFound indicates that node was not found in the registry
	ErrNodeNotFound = errors.New("node not found")

	// ErrNodeAlreadyExists indicates that node with this name is already registered
	ErrNodeAlreadyExists = errors.New("node already exists")

	// ErrMetaNotFound indicates that server metadata key was not found
	ErrMetaNotFound = errors.New("meta key not found")
)
