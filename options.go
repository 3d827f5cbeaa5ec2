package docmodel

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-docmodel/pkg/activity"
	"github.com/goliatone/go-docmodel/pkg/state"
)

const (
	// DefaultIDAttribute names the identity attribute when none is configured.
	DefaultIDAttribute = "id"
	// DefaultMaxDepth bounds path length, value nesting and nested dispatch.
	DefaultMaxDepth = 64
)

// Option configures a document tree. Nodes created by coercion share the
// configuration of the node that created them.
type Option func(*config)

type config struct {
	idAttribute     string
	newID           func() string
	maxDepth        int
	logger          Logger
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	evalLogger      EvaluatorLogger
	schemaGenerator SchemaGenerator
	store           state.Store[any]
	ref             state.Ref
	defaults        map[string]any

	activityHooks      activity.Hooks
	activityConfig     activity.Config
	activityConfigured bool
	emitter            *activity.Emitter
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		newID:    uuid.NewString,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithIDAttribute sets the attribute holding a document's identity.
// Descendants without their own setting inherit it.
func WithIDAttribute(name string) Option {
	return func(cfg *config) {
		cfg.idAttribute = name
	}
}

// WithIDGenerator replaces the UUID generator used for pseudo ids and
// synthetic ids.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// WithMaxDepth bounds path length, value nesting and nested event dispatch.
// Values below one restore the default.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		cfg.maxDepth = depth
	}
}

// WithEvaluator configures the evaluator used by Evaluate and Where.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithStore configures where Save and Fetch persist the root snapshot.
func WithStore(store state.Store[any]) Option {
	return func(cfg *config) {
		cfg.store = store
	}
}

// WithRef sets the storage reference of the root. An empty ID falls back to
// the root document's identity.
func WithRef(ref state.Ref) Option {
	return func(cfg *config) {
		cfg.ref = ref
	}
}

// WithDefaults deep-merges defaults under the initial attributes passed to
// New.
func WithDefaults(defaults map[string]any) Option {
	return func(cfg *config) {
		cfg.defaults = defaults
	}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *config) {
		cfg.schemaGenerator = generator
	}
}

func (cfg *config) log(event LogEvent) {
	if cfg.logger == nil {
		return
	}
	cfg.logger.Log(event)
}

func (cfg *config) evaluatorLogger() EvaluatorLogger {
	if cfg.evalLogger != nil {
		return cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}

func (cfg *config) generator() SchemaGenerator {
	if cfg.schemaGenerator != nil {
		return cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}
