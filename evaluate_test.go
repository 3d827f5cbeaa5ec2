package docmodel

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type ruleFixture struct {
	Snapshot map[string]any `json:"snapshot"`
	Cases    []struct {
		Name     string         `json:"name"`
		Rule     string         `json:"rule"`
		Args     map[string]any `json:"args"`
		Metadata map[string]any `json:"metadata"`
		Expect   any            `json:"expect"`
		Err      bool           `json:"err"`
	} `json:"cases"`
	Where []struct {
		Name       string `json:"name"`
		Collection string `json:"collection"`
		Rule       string `json:"rule"`
		Expect     []any  `json:"expect"`
	} `json:"where"`
}

func TestEvaluateRulesAcrossEngines(t *testing.T) {
	fx := loadFixture[ruleFixture](t, "order_rules.json")

	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			skipUnavailable(t, factory.name)
			doc := MustNew(fx.Snapshot, WithEvaluator(factory.new(nil, nil)))

			for _, tc := range fx.Cases {
				tc := tc
				t.Run(tc.Name, func(t *testing.T) {
					got, err := doc.EvaluateWith(RuleContext{Args: tc.Args, Metadata: tc.Metadata}, tc.Rule)
					if tc.Err {
						var evalErr *EvaluationError
						if !errors.As(err, &evalErr) {
							t.Fatalf("expected EvaluationError, got %v", err)
						}
						if evalErr.Engine != factory.name || evalErr.Expr != tc.Rule {
							t.Fatalf("unexpected error attribution %+v", evalErr)
						}
						return
					}
					if err != nil {
						t.Fatalf("evaluate %q: %v", tc.Rule, err)
					}
					if got != tc.Expect {
						t.Fatalf("evaluate %q = %v, want %v", tc.Rule, got, tc.Expect)
					}
				})
			}

			for _, tc := range fx.Where {
				tc := tc
				t.Run("where/"+tc.Name, func(t *testing.T) {
					collection := doc.Get(tc.Collection).(*Collection)
					matched, err := collection.Where(tc.Rule)
					if err != nil {
						t.Fatalf("where %q: %v", tc.Rule, err)
					}
					got := make([]any, len(matched))
					for i, m := range matched {
						if m.Wrapped() {
							got[i] = m.Get("value")
							continue
						}
						got[i] = m.Get("sku")
					}
					if diff := cmp.Diff(tc.Expect, got); diff != "" {
						t.Fatalf("where mismatch (-want +got):\n%s", diff)
					}
				})
			}
		})
	}
}

func TestEvaluateUsesProgramCache(t *testing.T) {
	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			skipUnavailable(t, factory.name)
			cache := &fakeProgramCache{}
			doc := MustNew(map[string]any{"total": 50.0}, WithEvaluator(factory.new(cache, nil)))

			for i := 0; i < 3; i++ {
				got, err := doc.Evaluate("total > 10.0")
				if err != nil {
					t.Fatalf("evaluate: %v", err)
				}
				if got != true {
					t.Fatalf("expected true, got %v", got)
				}
			}
			if cache.misses != 1 || cache.hits != 2 {
				t.Fatalf("expected 1 miss and 2 hits, got misses=%d hits=%d", cache.misses, cache.hits)
			}
		})
	}
}

func TestEvaluateCustomFunctions(t *testing.T) {
	rules := map[string]string{
		"expr": "equalsIgnoreCase(status, 'open')",
		"cel":  "call('equalsIgnoreCase', [status, 'open'])",
		"js":   "equalsIgnoreCase(status, 'open')",
	}
	registry := NewFunctionRegistry()
	err := registry.Register("equalsIgnoreCase", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		return strings.EqualFold(fmt.Sprint(args[0]), fmt.Sprint(args[1])), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("EQUALSIGNORECASE", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			skipUnavailable(t, factory.name)
			doc := MustNew(map[string]any{"status": "OPEN"}, WithEvaluator(factory.new(nil, registry)))
			got, err := doc.Evaluate(rules[factory.name])
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != true {
				t.Fatalf("expected true, got %v", got)
			}
		})
	}
}

func TestDefaultEvaluatorWiring(t *testing.T) {
	cache := NewMapProgramCache()
	var logged []EvaluatorLogEvent
	doc := MustNew(map[string]any{"total": 21.0},
		WithProgramCache(cache),
		WithCustomFunction("double", func(args ...any) (any, error) {
			return args[0].(float64) * 2, nil
		}),
		WithEvaluatorLogger(EvaluatorLoggerFunc(func(e EvaluatorLogEvent) { logged = append(logged, e) })),
	)

	got, err := doc.Evaluate("double(total)")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 42.0 {
		t.Fatalf("expected 42, got %v", got)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected the default evaluator to use the configured cache, got %d entries", cache.Len())
	}
	if len(logged) != 1 || logged[0].Engine != "expr" || logged[0].Expr != "double(total)" || logged[0].Err != nil {
		t.Fatalf("unexpected evaluation log %+v", logged)
	}

	if _, err := doc.Evaluate(""); err == nil {
		t.Fatalf("expected empty expression to be rejected")
	}
}

func TestEvaluateWithPopulatesContext(t *testing.T) {
	capture := &capturingEvaluator{}
	doc := MustNew(map[string]any{"shipping": map[string]any{"street": "Main"}}, WithEvaluator(capture))
	shipping := doc.Get("shipping").(*Document)

	before := time.Now()
	if _, err := shipping.Evaluate("anything"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := shipping.EvaluateWith(RuleContext{Now: &fixed, Snapshot: map[string]any{"x": 1}}, "anything"); err != nil {
		t.Fatalf("evaluate with: %v", err)
	}

	if len(capture.contexts) != 2 {
		t.Fatalf("expected 2 captured contexts, got %d", len(capture.contexts))
	}
	first := capture.contexts[0]
	if first.Now == nil || first.Now.Before(before) {
		t.Fatalf("expected Now to default to the current time, got %v", first.Now)
	}
	if first.Path != "shipping" || first.Args == nil || first.Metadata == nil {
		t.Fatalf("unexpected defaults %+v", first)
	}
	if diff := cmp.Diff(map[string]any{"street": "Main"}, first.Snapshot); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	second := capture.contexts[1]
	if !second.Now.Equal(fixed) {
		t.Fatalf("expected explicit Now to be kept, got %v", second.Now)
	}
	if diff := cmp.Diff(map[string]any{"x": 1}, second.Snapshot); diff != "" {
		t.Fatalf("explicit snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestWhereRequiresBooleanResults(t *testing.T) {
	c, err := NewCollection([]any{map[string]any{"qty": 2.0}})
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	_, err = c.Where("qty")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Path != "0" {
		t.Fatalf("expected EvaluationError for member 0, got %v", err)
	}
	if _, err := c.Where(""); err == nil {
		t.Fatalf("expected empty expression to be rejected")
	}
}
