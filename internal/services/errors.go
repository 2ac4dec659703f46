package services

import "errors"

// Dashboard service errors
var (
	// Batch errors
	ErrBatchNotFound = errors.New("batch not found")
	ErrNoFiles       = errors.New("no files in batch")

	// Dashboard errors
	ErrNoFactTable = errors.New("no fact table available for this batch")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
