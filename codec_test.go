package docmodel

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestFromYAMLBuildsTree(t *testing.T) {
	doc, err := FromYAML(readFixture(t, "order.yaml"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if got := doc.Get("shipping.street"); got != "1234 Lala Ln." {
		t.Fatalf("unexpected street %v", got)
	}
	if tags, ok := doc.Get("tags").(*Collection); !ok || !tags.Pseudo() {
		t.Fatalf("expected tags to be a pseudo collection")
	}
	if doc.Get("items.sku-2.qty") != 1 {
		t.Fatalf("expected item sku-2 to be addressable by id")
	}

	out, err := doc.ToYAML()
	if err != nil {
		t.Fatalf("to yaml: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode rendered yaml: %v", err)
	}
	if diff := cmp.Diff(doc.ToJSON(), decoded); diff != "" {
		t.Fatalf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONCodec(t *testing.T) {
	doc, err := FromJSON([]byte(`{"id": "o1", "tags": ["a", "b"], "total": 10}`))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"id":"o1","tags":["a","b"],"total":10}` {
		t.Fatalf("unexpected json %s", out)
	}
	tags, err := json.Marshal(doc.Get("tags"))
	if err != nil {
		t.Fatalf("marshal collection: %v", err)
	}
	if string(tags) != `["a","b"]` {
		t.Fatalf("unexpected collection json %s", tags)
	}

	if _, err := FromJSON([]byte(`[1, 2]`)); err == nil {
		t.Fatalf("expected a non-object document to be rejected")
	}
	if _, err := FromYAML([]byte("- a\n- b\n")); err == nil {
		t.Fatalf("expected a yaml sequence to be rejected")
	}
}
