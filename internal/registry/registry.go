// Package registry resolves panel account numbers to registered panels.
// The receiver only reads panel records; provisioning belongs to the
// surrounding CRUD layer.
package registry

import (
	"context"
	"errors"
)

// ErrPanelNotFound reports an account with no registered panel. Messages
// from such accounts are dropped before persistence but still acknowledged.
var ErrPanelNotFound = errors.New("panel not registered")

// Registry maps a panel-supplied account number to a panel ID.
type Registry interface {
	Resolve(ctx context.Context, account string) (int64, error)
}
