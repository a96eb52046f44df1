//go:build !cgo

package syntax

import (
	"context"
	"errors"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("python parsing requires CGO (tree-sitter)")

// IsAvailable returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Parse always fails without CGO.
func Parse(ctx context.Context, path string, src []byte) (*Module, error) {
	return nil, ErrNoCGO
}
