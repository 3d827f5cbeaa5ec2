package docmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-docmodel/pkg/activity"
	"github.com/goliatone/go-docmodel/pkg/state"
	"github.com/google/go-cmp/cmp"
)

func TestActivityHooksReceiveDocumentEvents(t *testing.T) {
	hook := &activity.CaptureHook{}
	store := state.NewMemoryStore[any]()
	doc := MustNew(map[string]any{"id": "o1"},
		WithActivityHooks(activity.Hooks{hook, nil}),
		WithActivityConfig(activity.Config{Enabled: true, ActorID: "actor-1"}),
		WithStore(store),
		WithRef(state.Ref{Domain: "orders"}),
	)

	if err := doc.Set("shipping.street", "Main"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := doc.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := []string{
		activity.VerbDocumentCreated,
		activity.VerbDocumentChanged,
		activity.VerbDocumentChanged,
		activity.VerbDocumentSaved,
	}
	if diff := cmp.Diff(want, hook.Verbs()); diff != "" {
		t.Fatalf("verbs mismatch (-want +got):\n%s", diff)
	}

	changed := hook.Events[2]
	if changed.ObjectID != "o1" || changed.ObjectType != activity.ObjectTypeDocument || changed.Path != "shipping.street" {
		t.Fatalf("unexpected changed event %+v", changed)
	}
	if changed.Channel != activity.DefaultChannel || changed.ActorID != "actor-1" {
		t.Fatalf("expected configured defaults, got channel=%q actor=%q", changed.Channel, changed.ActorID)
	}
	wantMeta := map[string]any{
		"domain":    "orders",
		"event":     "change:shipping.street",
		"new_value": "Main",
	}
	if diff := cmp.Diff(wantMeta, changed.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
	if saved := hook.Events[3]; saved.Metadata["etag"] != doc.Meta().ETag {
		t.Fatalf("expected saved event to carry the etag, got %v", saved.Metadata)
	}
	if len(doc.ActivityHooks()) != 1 {
		t.Fatalf("expected nil hooks to be dropped")
	}
}

func TestActivityDisabledAndFailingHooks(t *testing.T) {
	quiet := &activity.CaptureHook{}
	doc := MustNew(nil,
		WithActivityHooks(activity.Hooks{quiet}),
		WithActivityConfig(activity.Config{Enabled: false}),
	)
	_ = doc.Set("a", 1)
	if len(quiet.Events) != 0 {
		t.Fatalf("expected disabled emission, got %v", quiet.Verbs())
	}

	failing := &activity.CaptureHook{Err: errors.New("sink down")}
	var logged []LogEvent
	doc = MustNew(nil,
		WithActivityHooks(activity.Hooks{failing}),
		WithLogger(LoggerFunc(func(e LogEvent) { logged = append(logged, e) })),
	)
	if err := doc.Set("a", 1); err != nil {
		t.Fatalf("expected hook failures not to fail the set, got %v", err)
	}
	if len(failing.Events) != 2 {
		t.Fatalf("expected created and changed events, got %v", failing.Verbs())
	}
	if len(logged) != 2 || logged[1].Event != "change:a" || logged[1].Message != "activity hook failed" {
		t.Fatalf("unexpected logs %+v", logged)
	}
}

func TestActivityIgnoresDetachedSubtrees(t *testing.T) {
	hook := &activity.CaptureHook{}
	order := MustNew(map[string]any{"id": "o1", "shipping": map[string]any{"street": "Main"}},
		WithActivityHooks(activity.Hooks{hook}),
		WithActivityConfig(activity.Config{Enabled: true}),
	)
	old := order.Get("shipping").(*Document)

	if err := order.Set("shipping", map[string]any{"street": "Side"}); err != nil {
		t.Fatalf("replace shipping: %v", err)
	}
	if old.Parent() != nil {
		t.Fatalf("expected the replaced child to be detached")
	}
	recorded := len(hook.Events)

	if err := old.Set("street", "stale"); err != nil {
		t.Fatalf("set on detached child: %v", err)
	}
	if len(hook.Events) != recorded {
		t.Fatalf("expected no activity from a detached child, got %v", hook.Verbs()[recorded:])
	}

	clone, err := order.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if err := clone.Set("status", "open"); err != nil {
		t.Fatalf("set on clone: %v", err)
	}
	last := hook.Events[len(hook.Events)-1]
	if last.Verb != activity.VerbDocumentChanged || last.ObjectID != "o1" || last.Path != "status" {
		t.Fatalf("expected the clone to record as a root, got %+v", last)
	}
}
