package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStablePerValue(t *testing.T) {
	type filters struct {
		Collection string
		Page       int
	}

	a, err := Key("products:list", filters{Collection: "meisterstuck", Page: 1})
	require.NoError(t, err)
	b, err := Key("products:list", filters{Collection: "meisterstuck", Page: 1})
	require.NoError(t, err)
	c, err := Key("products:list", filters{Collection: "meisterstuck", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "products:list:"))
	assert.Len(t, strings.TrimPrefix(a, "products:list:"), 32)
}
