package site

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStyleProperties(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		props := ParseStyleProperties([]byte(`{"background-color": "#1a1a1a", "font-size": "18px"}`))
		require.Equal(t, map[string]string{
			"background-color": "#1a1a1a",
			"font-size":        "18px",
		}, props)
	})

	t.Run("empty payload", func(t *testing.T) {
		require.Nil(t, ParseStyleProperties(nil))
		require.Nil(t, ParseStyleProperties([]byte{}))
	})

	t.Run("malformed payload", func(t *testing.T) {
		require.Nil(t, ParseStyleProperties([]byte(`{"color": `)))
	})

	t.Run("non-string values", func(t *testing.T) {
		require.Nil(t, ParseStyleProperties([]byte(`{"z-index": 5}`)))
	})
}
