package db

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("timeout")
	if got := (&Error{Op: OpSearch, Target: "claims:idx", Err: cause}).Error(); got != "FT.SEARCH claims:idx: timeout" {
		t.Errorf("got %q", got)
	}
	if got := (&Error{Op: OpGet, Err: cause}).Error(); got != "GET: timeout" {
		t.Errorf("got %q", got)
	}
}

func TestOpOf(t *testing.T) {
	wrapped := fmt.Errorf("query: %w", &Error{Op: OpSearch, Err: ErrIndexNotFound})
	op, ok := OpOf(wrapped)
	if !ok || op != OpSearch {
		t.Errorf("OpOf = %q, %v", op, ok)
	}
	if !errors.Is(wrapped, ErrIndexNotFound) {
		t.Error("expected ErrIndexNotFound through the chain")
	}
	if _, ok := OpOf(errors.New("plain")); ok {
		t.Error("plain error has no op")
	}
}
