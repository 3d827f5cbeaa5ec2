package docmodel

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "total > 10", "items.0", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != "total > 10" || evalErr.Path != "items.0" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{Engine: "expr", Err: base}

	err := wrapEvaluationError("cel", "rule", "shipping", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" || existing.Path != "shipping" {
		t.Fatalf("expected missing metadata to be filled, got %+v", existing)
	}
}

func TestPathErrorMessageAndUnwrap(t *testing.T) {
	err := pathError("set", Path{"items", "abc", "price"}, "abc", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, `"items.abc.price"`) || !strings.Contains(msg, `segment "abc"`) {
		t.Fatalf("unexpected message %q", msg)
	}
	if again := pathError("get", Path{"x"}, "", err); again != err {
		t.Fatalf("expected existing PathError to be returned unchanged")
	}
}
