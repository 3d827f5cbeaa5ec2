package docmodel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultSchemaDescriptors(t *testing.T) {
	doc := MustNew(map[string]any{
		"id":       "o1",
		"items":    []any{map[string]any{"sku": "a", "qty": 2}},
		"shipping": map[string]any{"street": "Main"},
		"tags":     []any{"gift"},
		"notes":    map[string]any{},
	})
	schema, err := doc.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if schema.Format != SchemaFormatDescriptors {
		t.Fatalf("unexpected format %q", schema.Format)
	}
	want := []FieldDescriptor{
		{Path: "id", Type: "string"},
		{Path: "items.0.qty", Type: "int"},
		{Path: "items.0.sku", Type: "string"},
		{Path: "notes", Type: "map[string]any"},
		{Path: "shipping.street", Type: "string"},
		{Path: "tags", Type: "[]string"},
	}
	if diff := cmp.Diff(want, schema.Document); diff != "" {
		t.Fatalf("descriptors mismatch (-want +got):\n%s", diff)
	}

	empty, err := MustNew(nil).Schema()
	if err != nil {
		t.Fatalf("empty schema: %v", err)
	}
	if diff := cmp.Diff([]FieldDescriptor{{Path: "", Type: "map[string]any"}}, empty.Document); diff != "" {
		t.Fatalf("empty descriptors mismatch (-want +got):\n%s", diff)
	}
}

type failingGenerator struct{}

var errGenerator = errors.New("generator failed")

func (failingGenerator) Generate(any) (SchemaDocument, error) {
	return SchemaDocument{}, errGenerator
}

func TestCustomSchemaGenerator(t *testing.T) {
	c, err := NewCollection([]any{"a"}, WithSchemaGenerator(failingGenerator{}))
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	if _, err := c.Schema(); !errors.Is(err, errGenerator) {
		t.Fatalf("expected configured generator to be used, got %v", err)
	}
}
