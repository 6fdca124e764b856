package errno

import (
	"testing"

	"github.com/pkg/errors"
)

func TestCodeNilIsZero(t *testing.T) {
	if Code(nil) != 0 {
		t.Fatal("Code(nil) must be 0")
	}
}

func TestCodeResolvesWrappedError(t *testing.T) {
	wrapped := errors.Wrapf(ErrResourceBusy, "event index %d busy", 3)
	if got := Code(wrapped); got != wireCode[ErrResourceBusy] {
		t.Fatalf("Code(wrapped) = %d, want %d", got, wireCode[ErrResourceBusy])
	}
}

func TestCodesAreDistinctAndNegative(t *testing.T) {
	seen := make(map[int32]bool)
	for err, code := range wireCode {
		if code >= 0 {
			t.Fatalf("%v has non-negative code %d", err, code)
		}
		if seen[code] {
			t.Fatalf("duplicate wire code %d", code)
		}
		seen[code] = true
	}
}

func TestCodeUnknownErrorFallsBackToInvalidArgument(t *testing.T) {
	if got := Code(errors.New("not in the taxonomy")); got != wireCode[ErrInvalidArgument] {
		t.Fatalf("Code(unknown) = %d, want %d", got, wireCode[ErrInvalidArgument])
	}
}
