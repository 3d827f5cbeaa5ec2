package layering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeLayers(t *testing.T) {
	cases := []struct {
		name   string
		layers []map[string]any
		want   map[string]any
	}{
		{
			name: "strong wins on scalars",
			layers: []map[string]any{
				{"status": "paid"},
				{"status": "draft", "currency": "USD"},
			},
			want: map[string]any{"status": "paid", "currency": "USD"},
		},
		{
			name: "nested maps merge",
			layers: []map[string]any{
				{"shipping": map[string]any{"street": "1234 Lala Ln."}},
				{"shipping": map[string]any{"street": "", "country": "US"}},
			},
			want: map[string]any{"shipping": map[string]any{"street": "1234 Lala Ln.", "country": "US"}},
		},
		{
			name: "sequences replace",
			layers: []map[string]any{
				{"tags": []any{"a"}},
				{"tags": []any{"b", "c"}},
			},
			want: map[string]any{"tags": []any{"a"}},
		},
		{
			name: "nil strong value falls back",
			layers: []map[string]any{
				{"note": nil},
				{"note": "default"},
			},
			want: map[string]any{"note": "default"},
		},
		{
			name:   "nil strong layer",
			layers: []map[string]any{nil, {"a": 1}},
			want:   map[string]any{"a": 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeLayers(tc.layers...)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("merged snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	if got := MergeLayers(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMergeLayersDoesNotAliasInputs(t *testing.T) {
	defaults := map[string]any{"shipping": map[string]any{"country": "US"}, "tags": []any{"x"}}
	merged := MergeLayers(map[string]any{}, defaults)
	merged["shipping"].(map[string]any)["country"] = "CA"
	merged["tags"].([]any)[0] = "y"
	if defaults["shipping"].(map[string]any)["country"] != "US" || defaults["tags"].([]any)[0] != "x" {
		t.Fatalf("expected defaults to be untouched, got %v", defaults)
	}
}
