package db

import (
	"errors"
	"fmt"
)

// Operation names for error context.
const (
	OpPing        = "ping"
	OpHSet        = "hset"
	OpCreateIndex = "create_index"
	OpDropIndex   = "drop_index"
	OpIndexInfo   = "index_info"
	OpSearch      = "search"
)

var (
	// ErrIndexExists signals that an FT index already exists.
	ErrIndexExists = errors.New("index already exists")
	// ErrIndexNotFound signals a missing FT index.
	ErrIndexNotFound = errors.New("index not found")
)

// Error wraps a backend failure with the operation that caused it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("db %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }
