package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"glint/internal/config"
)

func testResolver() *Resolver {
	return NewResolver(config.ModesConfig{
		HistoryPrefix: "!h ",
		Plugins: []config.PluginConfig{
			{Name: "find", Modifier: "find ", History: true},
			{Name: "calc", Modifier: "= ", History: false},
		},
		Web: []config.WebConfig{
			{Kind: "w"},
		},
	})
}

func TestResolveDefaultSearch(t *testing.T) {
	mode, modifier, query := testResolver().Resolve("firefox")
	require.Equal(t, ModeSearch, mode.Kind)
	require.Empty(t, modifier)
	require.Equal(t, "firefox", query)
}

func TestResolveWebShortcut(t *testing.T) {
	mode, modifier, query := testResolver().Resolve("w cats")
	require.Equal(t, ModeWeb, mode.Kind)
	require.Equal(t, "w", mode.WebKind)
	require.Equal(t, "w ", modifier)
	require.Equal(t, "cats", query)
}

func TestResolvePluginShortcut(t *testing.T) {
	mode, modifier, query := testResolver().Resolve("find notes.org")
	require.Equal(t, ModePlugin, mode.Kind)
	require.Equal(t, "find", mode.PluginName)
	require.True(t, mode.PluginHistory)
	require.Equal(t, "find ", modifier)
	require.Equal(t, "notes.org", query)
}

func TestResolvePluginWithoutHistory(t *testing.T) {
	mode, _, _ := testResolver().Resolve("= 2+2")
	require.Equal(t, ModePlugin, mode.Kind)
	require.False(t, mode.PluginHistory)
}

func TestResolveHistoryBrowsing(t *testing.T) {
	mode, modifier, query := testResolver().Resolve("")
	require.Equal(t, ModeHistory, mode.Kind)
	require.Empty(t, modifier)
	require.Empty(t, query)

	mode, modifier, query = testResolver().Resolve("!h term")
	require.Equal(t, ModeHistory, mode.Kind)
	require.Equal(t, "!h ", modifier)
	require.Equal(t, "term", query)
}

func TestResolveNoShortcutWithoutSpace(t *testing.T) {
	// "w" alone is a search for the letter w, not a web shortcut.
	mode, _, query := testResolver().Resolve("w")
	require.Equal(t, ModeSearch, mode.Kind)
	require.Equal(t, "w", query)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := testResolver()
	for i := 0; i < 3; i++ {
		mode, modifier, query := r.Resolve("w cats")
		require.Equal(t, ModeWeb, mode.Kind)
		require.Equal(t, "w ", modifier)
		require.Equal(t, "cats", query)
	}
}
