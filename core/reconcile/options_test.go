package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"deluge-submit/core/deluge"
	"deluge-submit/core/entry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	e := entry.New(map[string]any{"title": "Show.S01E02", "series_name": "Show", "season": 1})

	tests := []struct {
		name      string
		tmpl      string
		expected  string
		expectErr bool
	}{
		{name: "empty", tmpl: "", expected: ""},
		{name: "plain path", tmpl: "/data/tv", expected: "/data/tv"},
		{name: "fields", tmpl: "/data/{{.series_name}}/S{{.season}}", expected: "/data/Show/S1"},
		{name: "home", tmpl: "~/tv/{{.series_name}}", expected: filepath.Join(home, "tv/Show")},
		{name: "bare home", tmpl: "~", expected: home},
		{name: "tilde inside name is kept", tmpl: "/data/~tv", expected: "/data/~tv"},
		{name: "missing field", tmpl: "/data/{{.quality}}", expectErr: true},
		{name: "bad syntax", tmpl: "/data/{{.series_name", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, e)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewItem_EntryOverridesConfig(t *testing.T) {
	cfg := deluge.Defaults()
	cfg.Path = "/cfg/path"
	cfg.MoveDone = "/cfg/done"
	cfg.Label = "cfg"

	t.Run("config values", func(t *testing.T) {
		item := NewItem(entry.New(map[string]any{"title": "A", "file": "/tmp/a"}), cfg)
		assert.Equal(t, "A", item.Title)
		assert.Equal(t, "/tmp/a", item.File)
		assert.Equal(t, "/cfg/path", item.Path)
		assert.Equal(t, "/cfg/done", item.MoveDone)
		assert.Equal(t, "cfg", item.Label)
		assert.False(t, item.QueueToTop)
		assert.Equal(t, StatusPending, item.Status)
	})

	t.Run("entry values", func(t *testing.T) {
		item := NewItem(entry.New(map[string]any{
			"title":      "B",
			"path":       "/entry/path",
			"movedone":   "/entry/done",
			"label":      "Entry",
			"queuetotop": "yes",
		}), cfg)
		assert.Equal(t, "/entry/path", item.Path)
		assert.Equal(t, "/entry/done", item.MoveDone)
		assert.Equal(t, "Entry", item.Label)
		assert.True(t, item.QueueToTop)
	})
}

func TestPostAddOptions_LowercasesLabel(t *testing.T) {
	item := &StagedItem{Entry: entry.New(map[string]any{"q": "720p"}), Label: "Shows-HD", MoveDone: "/done/{{.q}}", QueueToTop: true}

	opts, err := postAddOptions(item)
	require.NoError(t, err)
	assert.Equal(t, PostAddOptions{MoveDone: "/done/720p", Label: "shows-hd", QueueToTop: true}, opts)
}
