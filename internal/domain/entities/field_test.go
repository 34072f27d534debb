package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldKind_IsValid(t *testing.T) {
	for _, kind := range []FieldKind{KindString, KindText, KindInteger, KindNumber, KindBoolean, KindJSON} {
		assert.True(t, kind.IsValid(), "kind %s should be valid", kind)
	}
	assert.False(t, FieldKind("timestamp").IsValid())
}

func TestFieldDefinition_Clean_String(t *testing.T) {
	def := FieldDefinition{Name: "title", Kind: KindString}

	t.Run("passes strings through", func(t *testing.T) {
		value, err := def.Clean("hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", value)
	})

	t.Run("stringifies numbers", func(t *testing.T) {
		value, err := def.Clean(float64(42))
		require.NoError(t, err)
		assert.Equal(t, "42", value)
	})

	t.Run("nil passes through", func(t *testing.T) {
		value, err := def.Clean(nil)
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestFieldDefinition_Clean_Integer(t *testing.T) {
	def := FieldDefinition{Name: "count", Kind: KindInteger}

	t.Run("parses numeric strings", func(t *testing.T) {
		value, err := def.Clean(" 17 ")
		require.NoError(t, err)
		assert.Equal(t, int64(17), value)
	})

	t.Run("empty string becomes nil", func(t *testing.T) {
		value, err := def.Clean("")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("truncates floats", func(t *testing.T) {
		value, err := def.Clean(3.9)
		require.NoError(t, err)
		assert.Equal(t, int64(3), value)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := def.Clean("lots")
		require.Error(t, err)
	})
}

func TestFieldDefinition_Clean_Number(t *testing.T) {
	def := FieldDefinition{Name: "price", Kind: KindNumber}

	value, err := def.Clean("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, value)

	_, err = def.Clean("twelve")
	require.Error(t, err)
}

func TestFieldDefinition_Clean_Boolean(t *testing.T) {
	def := FieldDefinition{Name: "done", Kind: KindBoolean}

	t.Run("accepts true words", func(t *testing.T) {
		for _, word := range []string{"true", "1", "yes", "Y", " TRUE "} {
			value, err := def.Clean(word)
			require.NoError(t, err)
			assert.Equal(t, true, value, "word %q", word)
		}
	})

	t.Run("everything else is false", func(t *testing.T) {
		for _, word := range []string{"false", "0", "no", "maybe", ""} {
			value, err := def.Clean(word)
			require.NoError(t, err)
			assert.Equal(t, false, value, "word %q", word)
		}
	})

	t.Run("numbers coerce", func(t *testing.T) {
		value, err := def.Clean(float64(1))
		require.NoError(t, err)
		assert.Equal(t, true, value)
	})
}

func TestFieldDefinition_Clean_JSON(t *testing.T) {
	def := FieldDefinition{Name: "details", Kind: KindJSON}

	t.Run("maps and lists pass through", func(t *testing.T) {
		m := map[string]any{"a": 1}
		value, err := def.Clean(m)
		require.NoError(t, err)
		assert.Equal(t, m, value)
	})

	t.Run("parses JSON strings", func(t *testing.T) {
		value, err := def.Clean(`{"a": true}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": true}, value)
	})

	t.Run("blank string becomes empty object", func(t *testing.T) {
		value, err := def.Clean("  ")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, value)
	})

	t.Run("rejects malformed JSON strings", func(t *testing.T) {
		_, err := def.Clean("{broken")
		require.Error(t, err)
	})
}

func TestFieldDefinition_Defaults(t *testing.T) {
	t.Run("static default", func(t *testing.T) {
		def := FieldDefinition{Name: "timezone", Kind: KindString, Default: "UTC"}
		assert.True(t, def.HasDefault())
		assert.Equal(t, "UTC", def.DefaultValue())
	})

	t.Run("false is still a default", func(t *testing.T) {
		def := FieldDefinition{Name: "completed", Kind: KindBoolean, Default: false}
		assert.True(t, def.HasDefault())
	})

	t.Run("lazy default wins over static", func(t *testing.T) {
		def := FieldDefinition{
			Name:        "stamp",
			Kind:        KindString,
			Default:     "static",
			DefaultFunc: func() any { return "lazy" },
		}
		assert.Equal(t, "lazy", def.DefaultValue())
	})

	t.Run("no default", func(t *testing.T) {
		def := FieldDefinition{Name: "title", Kind: KindString}
		assert.False(t, def.HasDefault())
	})
}
