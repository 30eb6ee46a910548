package app

import "github.com/google/uuid"

// newOrderToken mints the externally visible order identifier, distinct from
// the internal storage key.
func newOrderToken() string {
	return uuid.NewString()
}
