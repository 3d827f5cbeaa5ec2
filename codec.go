package docmodel

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToJSON())
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToJSON())
}

// FromJSON builds a root document from a JSON object.
func FromJSON(data []byte, opts ...Option) (*Document, error) {
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("docmodel: decode json: %w", err)
	}
	return New(attrs, opts...)
}

// FromYAML builds a root document from a YAML mapping.
func FromYAML(data []byte, opts ...Option) (*Document, error) {
	var attrs map[string]any
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("docmodel: decode yaml: %w", err)
	}
	return New(attrs, opts...)
}

// ToYAML renders the plain form of d as YAML.
func (d *Document) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(d.ToJSON())
	if err != nil {
		return nil, fmt.Errorf("docmodel: encode yaml: %w", err)
	}
	return out, nil
}

// ToYAML renders the plain form of c as YAML.
func (c *Collection) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(c.ToJSON())
	if err != nil {
		return nil, fmt.Errorf("docmodel: encode yaml: %w", err)
	}
	return out, nil
}
