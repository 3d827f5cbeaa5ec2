package docmodel

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RuleContext carries inputs needed when evaluating an expression. Snapshot
// keys are exposed as top-level variables.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	// Path is the dotted path of the node being evaluated.
	Path string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// Evaluate runs expr with the plain form of d as its environment.
func (d *Document) Evaluate(expr string) (any, error) {
	return d.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr using ctx, falling back to the plain form of d when
// ctx.Snapshot is nil.
func (d *Document) EvaluateWith(ctx RuleContext, expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("docmodel: expression must not be empty")
	}
	evaluator, err := d.cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = d.ToJSON()
	}
	if ctx.Path == "" {
		ctx.Path = pathOf(d).String()
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(engine, expr, ctx.Path, evalErr)
	d.cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Path:     ctx.Path,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return result, nil
}

// Where returns the members for which expr evaluates to true. Each member is
// evaluated with its attributes as variables; wrapped members expose their
// element as "value".
func (c *Collection) Where(expr string) ([]*Document, error) {
	if expr == "" {
		return nil, fmt.Errorf("docmodel: expression must not be empty")
	}
	evaluator, err := c.cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(engine, expr, pathOf(c).String(), err)
	}

	var matched []*Document
	for _, m := range c.members {
		ctx := RuleContext{Snapshot: m.snapshot(), Path: pathOf(m).String()}.withDefaults()
		start := time.Now()
		result, evalErr := rule.Evaluate(ctx)
		evalErr = wrapEvaluationError(engine, expr, ctx.Path, evalErr)
		if evalErr == nil {
			if _, ok := result.(bool); !ok {
				evalErr = wrapEvaluationError(engine, expr, ctx.Path, fmt.Errorf("result is %T, want bool", result))
			}
		}
		c.cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expr,
			Path:     ctx.Path,
			Duration: time.Since(start),
			Err:      evalErr,
		})
		if evalErr != nil {
			return nil, evalErr
		}
		if result.(bool) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// resolveEvaluator returns the configured evaluator, installing an expr
// evaluator wired to the configured cache and functions on first use.
func (cfg *config) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*docmodel.exprEvaluator":
		return "expr"
	case "*docmodel.celEvaluator":
		return "cel"
	case "*docmodel.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "docmodel:") {
		return err
	}
	return fmt.Errorf("docmodel: %s evaluator: %w", engine, err)
}
