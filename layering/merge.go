// Package layering merges and clones plain document values (maps with
// string keys, ordered sequences, scalars).
package layering

// MergeLayers composes snapshots ordered from strongest to weakest, returning
// a new map that keeps explicit settings from stronger layers while filling
// missing keys from weaker ones. Nested maps merge recursively; sequences and
// scalars from the strongest layer that sets them win as a whole.
func MergeLayers(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return nil
	}

	var merged map[string]any
	if weakest := layers[len(layers)-1]; weakest != nil {
		merged = cloneMap(weakest)
	}
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeMap(layers[i], merged)
	}
	return merged
}

func mergeMap(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return weak
	}
	result := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		result[key] = value
	}
	for key, value := range strong {
		existing, ok := result[key]
		if !ok {
			result[key] = Clone(value)
			continue
		}
		result[key] = mergeValue(value, existing)
	}
	return result
}

func mergeValue(strong, weak any) any {
	if strong == nil {
		return Clone(weak)
	}
	strongMap, ok := strong.(map[string]any)
	if !ok {
		return Clone(strong)
	}
	weakMap, ok := weak.(map[string]any)
	if !ok {
		return cloneMap(strongMap)
	}
	return mergeMap(strongMap, weakMap)
}

// Clone deep copies maps and sequences inside value. Scalars are returned
// as-is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}
		return cloneMap(typed)
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	default:
		return value
	}
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = Clone(value)
	}
	return out
}
