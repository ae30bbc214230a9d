package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestManager_LoadAll(t *testing.T) {
	history := &stubFeature{name: "history", enabled: true}
	archive := &stubFeature{name: "archive", enabled: false}

	mgr := NewManager(zap.NewNop())
	mgr.Register(history)
	mgr.Register(archive)
	assert.Len(t, mgr.Features(), 2)

	loaded, err := mgr.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.Equal(t, []string{"history"}, loaded)
	assert.True(t, history.loaded)
	assert.False(t, archive.loaded)
}

func TestManager_LoadAll_Error(t *testing.T) {
	broken := &stubFeature{name: "broken", enabled: true, err: errors.New("no db")}
	after := &stubFeature{name: "after", enabled: true}

	mgr := NewManager(nil)
	mgr.Register(broken)
	mgr.Register(after)

	loaded, err := mgr.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "failed to load feature broken")
	assert.Empty(t, loaded)
	assert.False(t, after.loaded)
}
