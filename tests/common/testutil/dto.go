//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body decoded into a generic map.
type Mutation func(m map[string]any)

// DtoMap round-trips v through JSON so tests can send bodies the typed DTO
// cannot express (missing fields, wrong types).
func DtoMap(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, mut := range muts {
		if mut != nil {
			mut(m)
		}
	}
	return m
}

// Field sets key to value; a nil value removes the key.
func Field(key string, value any) Mutation {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// ItemField applies Field to the i-th element of the "items" array.
func ItemField(i int, key string, value any) Mutation {
	return func(m map[string]any) {
		items, ok := m["items"].([]any)
		if !ok || i >= len(items) {
			return
		}
		if item, ok := items[i].(map[string]any); ok {
			Field(key, value)(item)
		}
	}
}
