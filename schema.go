package docmodel

import (
	"fmt"
	"sort"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible JSON Schema documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument is a generated schema and its format. Document must be
// JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator describes the plain form of a node. Implementations must
// be safe for concurrent use and return an empty schema for nil input.
type SchemaGenerator interface {
	Generate(value any) (SchemaDocument, error)
}

// FieldDescriptor describes a leaf path and the inferred Go type.
type FieldDescriptor struct {
	Path string
	Type string
}

// Schema describes the plain form of d with the configured generator.
func (d *Document) Schema() (SchemaDocument, error) {
	return d.cfg.generator().Generate(d.ToJSON())
}

// Schema describes the plain form of c with the configured generator.
func (c *Collection) Schema() (SchemaDocument, error) {
	return c.cfg.generator().Generate(c.ToJSON())
}

// DefaultSchemaGenerator returns the built-in descriptor generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(value any) (SchemaDocument, error) {
	descriptors := describeFields(value, "")
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return SchemaDocument{Format: SchemaFormatDescriptors, Document: descriptors}, nil
}

// describeFields flattens maps into dotted paths. Sequences are described by
// their first element, mirroring how collections index members.
func describeFields(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(typed) == 0 {
			return []FieldDescriptor{{Path: prefix, Type: "map[string]any"}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			fields = append(fields, describeFields(typed[key], joinPath(prefix, key))...)
		}
		return fields
	case []any:
		if len(typed) == 0 {
			return []FieldDescriptor{{Path: prefix, Type: "[]any"}}
		}
		if first, ok := typed[0].(map[string]any); ok && len(first) > 0 {
			return describeFields(first, joinPath(prefix, "0"))
		}
		return []FieldDescriptor{{Path: prefix, Type: "[]" + typeName(typed[0])}}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{Path: prefix, Type: typeName(typed)}}
	}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
