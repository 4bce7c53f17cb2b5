package etc

import (
	"github.com/nrednav/cuid2"
)

// NewFreshID returns a collision resistant identifier for a session.
func NewFreshID() string {
	return cuid2.Generate()
}
