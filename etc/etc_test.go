package etc

import (
	"testing"

	"github.com/nrednav/cuid2"
)

func TestNewFreshID(t *testing.T) {
	a, b := NewFreshID(), NewFreshID()
	if a == b {
		t.Errorf("two ids are both %q", a)
	}
	for _, id := range []string{a, b} {
		if !cuid2.IsCuid(id) {
			t.Errorf("%q is not a cuid", id)
		}
	}
}
