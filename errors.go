package docmodel

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("docmodel: not found")
	ErrInvalidPath     = errors.New("docmodel: invalid path")
	ErrMaxDepth        = errors.New("docmodel: max depth exceeded")
	ErrCycle           = errors.New("docmodel: node cannot contain itself")
	ErrNoStore         = errors.New("docmodel: store not configured")
	ErrIndexOutOfRange = errors.New("docmodel: index out of range")
	ErrNoEvaluator     = errors.New("docmodel: evaluator not configured")
)

// PathError records the operation and path that failed. Segment is the
// segment being resolved when the failure happened, when known.
type PathError struct {
	Op      string
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Segment != "" && e.Segment != e.Path {
		return fmt.Sprintf("docmodel: %s %q at segment %q: %v", e.Op, e.Path, e.Segment, e.Err)
	}
	return fmt.Sprintf("docmodel: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func pathError(op string, path Path, segment string, err error) error {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return err
	}
	return &PathError{Op: op, Path: path.String(), Segment: segment, Err: err}
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Path   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("docmodel: %s evaluator %s path=%s: %v", e.Engine, describeExpression(e.Expr), describePath(e.Path), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func describePath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func wrapEvaluationError(engine, expr, path string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Path == "" {
			evalErr.Path = path
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Path:   path,
		Err:    err,
	}
}
