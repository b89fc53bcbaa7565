package core_test

import (
	"errors"
	"fmt"
	"testing"

	"verger/internal/core"
)

func TestKindOf(t *testing.T) {
	typed := &core.Error{Kind: core.KindInsufficientStock, Message: "not enough"}

	if got := core.KindOf(typed); got != core.KindInsufficientStock {
		t.Errorf("expected INSUFFICIENT_STOCK, got %s", got)
	}

	// Wrapped typed errors keep their kind.
	wrapped := fmt.Errorf("record sale: %w", typed)
	if got := core.KindOf(wrapped); got != core.KindInsufficientStock {
		t.Errorf("expected INSUFFICIENT_STOCK through wrapping, got %s", got)
	}

	// Untyped errors classify as storage failures.
	if got := core.KindOf(errors.New("connection refused")); got != core.KindStorage {
		t.Errorf("expected STORAGE for untyped error, got %s", got)
	}

	if !core.IsKind(typed, core.KindInsufficientStock) {
		t.Error("IsKind should match the carried kind")
	}
	if core.IsKind(nil, core.KindStorage) {
		t.Error("IsKind must be false for nil errors")
	}
}
