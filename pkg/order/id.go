package order

import (
	"strings"

	"github.com/google/uuid"
)

// NewClientOrderID returns a random 32 character hex identifier, the
// format the exchange itself assigns when none is given.
func NewClientOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
