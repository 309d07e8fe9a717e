package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui/agentstream/pkg/core"
)

func TestParseComponent(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		comp, err := ParseComponent("just a normal reply")
		assert.NoError(t, err)
		assert.Nil(t, comp)
	})

	t.Run("weather card", func(t *testing.T) {
		comp, err := ParseComponent(`COMPONENT:WeatherCard:{"location":"Mumbai","temperature":32}`)
		require.NoError(t, err)
		require.NotNil(t, comp)
		assert.Equal(t, "WeatherCard", comp.Type)

		data, ok := comp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Mumbai", data["location"])
	})

	t.Run("payload may contain colons", func(t *testing.T) {
		comp, err := ParseComponent(`COMPONENT:Checklist:{"title":"a:b:c","items":[]}`)
		require.NoError(t, err)
		require.NotNil(t, comp)
		assert.Equal(t, "Checklist", comp.Type)

		data := comp.Data.(map[string]any)
		assert.Equal(t, "a:b:c", data["title"])
	})

	t.Run("malformed payload", func(t *testing.T) {
		comp, err := ParseComponent(`COMPONENT:WeatherCard:{not json`)
		assert.Nil(t, comp)
		var parseErr *core.ComponentParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("missing type", func(t *testing.T) {
		comp, err := ParseComponent(`COMPONENT::{"x":1}`)
		assert.Nil(t, comp)
		var parseErr *core.ComponentParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("missing payload separator", func(t *testing.T) {
		comp, err := ParseComponent(`COMPONENT:WeatherCard`)
		assert.Nil(t, comp)
		assert.Error(t, err)
	})
}
