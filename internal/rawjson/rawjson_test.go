package rawjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject(t *testing.T) {
	t.Run("numbers keep their literals", func(t *testing.T) {
		m, err := Object([]byte(`{"price":19.995,"id":12,"nested":{"ok":true},"tags":["a",null]}`))
		require.NoError(t, err)

		assert.Equal(t, json.Number("19.995"), m["price"])
		assert.Equal(t, json.Number("12"), m["id"])

		nested := m["nested"].(map[string]any)
		assert.Equal(t, true, nested["ok"])

		tags := m["tags"].([]any)
		require.Len(t, tags, 2)
		assert.Equal(t, "a", tags[0])
		assert.Nil(t, tags[1])
	})

	t.Run("non-object input rejected", func(t *testing.T) {
		_, err := Object([]byte(`[1,2]`))
		assert.Error(t, err)
	})

	t.Run("malformed input rejected", func(t *testing.T) {
		_, err := Object([]byte(`{"a":`))
		assert.Error(t, err)
	})
}
