package docmodel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTriggerBubblesCustomEvents(t *testing.T) {
	doc := MustNew(map[string]any{"person": map[string]any{"name": "x"}})
	person := doc.Get("person").(*Document)

	var got []Event
	doc.OnAll(func(e Event) { got = append(got, e) })

	person.Trigger("highlight:name", "yellow")
	person.Trigger("ping", nil)

	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Name()
	}
	if diff := cmp.Diff([]string{"highlight:person.name", "ping:person"}, names); diff != "" {
		t.Fatalf("bubbled names mismatch (-want +got):\n%s", diff)
	}
	if got[0].Target != person || got[0].Value != "yellow" {
		t.Fatalf("expected target and value to be preserved, got %+v", got[0])
	}
}

func TestBareChangeStaysLocal(t *testing.T) {
	doc := MustNew(map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}})
	counts := map[string]int{}
	doc.On("change", func(Event) { counts["root"]++ })
	doc.Get("a").(*Document).On("change", func(Event) { counts["a"]++ })
	doc.Get("a.b").(*Document).On("change", func(Event) { counts["b"]++ })

	if err := doc.Set("a.b.c", 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"b": 1}, counts); diff != "" {
		t.Fatalf("bare change counts mismatch (-want +got):\n%s", diff)
	}
	if err := doc.Set("top", 1); err != nil {
		t.Fatalf("set top: %v", err)
	}
	if counts["root"] != 1 {
		t.Fatalf("expected root bare change for its own key, got %d", counts["root"])
	}
}

func TestOffStopsDelivery(t *testing.T) {
	doc := MustNew(nil)
	count := 0
	sub := doc.On("change:*", func(Event) { count++ })
	_ = doc.Set("a", 1)
	doc.Off(sub)
	_ = doc.Set("b", 1)
	if count != 1 {
		t.Fatalf("expected one delivery, got %d", count)
	}
}

func TestNodePathAndRoot(t *testing.T) {
	doc := MustNew(map[string]any{"items": []any{map[string]any{"geo": map[string]any{"lat": 1}}}})
	geo := doc.Get("items.0.geo").(*Document)
	if diff := cmp.Diff(Path{"items", "0", "geo"}, geo.Path()); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if geo.Root() != doc || doc.Root() != doc || doc.Parent() != nil || doc.Name() != "" {
		t.Fatalf("unexpected root relations")
	}
	if doc.Kind() != KindDocument || doc.Get("items").(Node).Kind() != KindCollection {
		t.Fatalf("unexpected kinds")
	}
	if KindScalar.String() != "scalar" {
		t.Fatalf("unexpected kind name %q", KindScalar.String())
	}
}
