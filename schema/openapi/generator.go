// Package openapi generates OpenAPI 3 compatible JSON Schema for the plain
// form of document trees.
package openapi

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-docmodel"
)

// GeneratorOption configures the generator.
type GeneratorOption func(*generator)

// WithTitle sets the root schema title.
func WithTitle(title string) GeneratorOption {
	return func(g *generator) {
		g.title = strings.TrimSpace(title)
	}
}

// WithRequired marks every key present in an object as required.
func WithRequired() GeneratorOption {
	return func(g *generator) {
		g.required = true
	}
}

type generator struct {
	title    string
	required bool
}

// NewGenerator constructs an OpenAPI-compatible schema generator.
func NewGenerator(opts ...GeneratorOption) docmodel.SchemaGenerator {
	g := generator{}
	for _, opt := range opts {
		if opt != nil {
			opt(&g)
		}
	}
	return g
}

// Option wires the OpenAPI schema generator into a document tree.
func Option(opts ...GeneratorOption) docmodel.Option {
	return docmodel.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(value any) (docmodel.SchemaDocument, error) {
	schema, err := g.build(reflect.ValueOf(value))
	if err != nil {
		return docmodel.SchemaDocument{}, err
	}
	if g.title != "" {
		schema["title"] = g.title
	}
	return docmodel.SchemaDocument{
		Format:   docmodel.SchemaFormatOpenAPI,
		Document: schema,
	}, nil
}

func (g generator) build(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"type": "null"}, nil
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		// JSON decoding yields float64 for every number
		if f := rv.Float(); f == math.Trunc(f) && !math.IsInf(f, 0) {
			return map[string]any{"type": "integer"}, nil
		}
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type()),
		}, nil
	case reflect.Map:
		return g.object(rv)
	case reflect.Slice, reflect.Array:
		return g.array(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type()),
		}, nil
	}
}

func (g generator) object(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
	}
	names := make([]string, 0, rv.Len())
	for _, key := range rv.MapKeys() {
		names = append(names, key.String())
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		child, err := g.build(rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key())))
		if err != nil {
			return nil, fmt.Errorf("openapi: property %q: %w", name, err)
		}
		properties[name] = child
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if g.required && len(names) > 0 {
		schema["required"] = names
	}
	return schema, nil
}

// array describes items by the first element; collections hold members of
// one shape.
func (g generator) array(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{"type": "string", "format": "byte"}, nil
	}
	items := map[string]any{}
	if rv.Len() > 0 {
		first, err := g.build(rv.Index(0))
		if err != nil {
			return nil, err
		}
		items = first
	}
	return map[string]any{"type": "array", "items": items}, nil
}
