package docmodel

import (
	"context"

	"github.com/goliatone/go-docmodel/pkg/activity"
	"github.com/goliatone/go-docmodel/pkg/events"
)

// WithActivityHooks attaches hooks notified about root lifecycle and change
// events. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Compact()
	return func(cfg *config) {
		cfg.activityHooks = normalized
		cfg.emitter = nil
	}
}

// WithActivityConfig sets channel and identity defaults for emitted activity
// events. Without it emission is enabled whenever hooks are present.
func WithActivityConfig(settings activity.Config) Option {
	return func(cfg *config) {
		cfg.activityConfig = settings
		cfg.activityConfigured = true
		cfg.emitter = nil
	}
}

// ActivityHooks returns a copy of the hooks configured for the node.
func (n *node) ActivityHooks() activity.Hooks {
	return n.cfg.activityHooks.Compact()
}

func (cfg *config) activityEmitter() *activity.Emitter {
	if cfg.emitter == nil {
		settings := cfg.activityConfig
		if !cfg.activityConfigured {
			settings.Enabled = true
		}
		cfg.emitter = activity.NewEmitter(cfg.activityHooks, settings)
	}
	return cfg.emitter
}

type lifecycle int

const (
	lifecycleCreated lifecycle = iota
	lifecycleSaved
	lifecycleFetched
)

// recordChange reports a qualified change that reached the root.
func (n *node) recordChange(e events.Event) {
	if !n.cfg.activityEmitter().Enabled() {
		return
	}
	input := n.activityInput()
	input.Path = e.Path.String()
	input.EventName = e.Name()
	input.OldValue = plainOf(e.Previous)
	input.NewValue = plainOf(e.Value)
	n.notify(context.Background(), activity.BuildDocumentChangedEvent(input), e.Name())
}

func (n *node) recordLifecycle(ctx context.Context, kind lifecycle) {
	if !n.cfg.activityEmitter().Enabled() {
		return
	}
	input := n.activityInput()
	switch kind {
	case lifecycleCreated:
		n.notify(ctx, activity.BuildDocumentCreatedEvent(input), "")
	case lifecycleSaved:
		n.notify(ctx, activity.BuildDocumentSavedEvent(input), events.TypeSync)
	case lifecycleFetched:
		n.notify(ctx, activity.BuildDocumentFetchedEvent(input), events.TypeSync)
	}
}

func (n *node) activityInput() activity.DocumentEventInput {
	return activity.DocumentEventInput{
		ObjectID:   rootID(n.self),
		Domain:     n.cfg.ref.Domain,
		SnapshotID: n.meta.SnapshotID,
		ETag:       n.meta.ETag,
	}
}

func (n *node) notify(ctx context.Context, event activity.Event, name string) {
	if err := n.cfg.activityEmitter().Emit(ctx, event); err != nil {
		n.cfg.log(LogEvent{
			Level:   LogLevelWarn,
			Message: "activity hook failed",
			Path:    event.Path,
			Event:   name,
			Err:     err,
		})
	}
}

// rootID is the identity used for storage refs and activity events.
func rootID(n Node) string {
	if id := n.base().cfg.ref.ID; id != "" {
		return id
	}
	if d, ok := n.(*Document); ok {
		return d.ID()
	}
	return ""
}
