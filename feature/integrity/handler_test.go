package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"deluge-submit/core/deluge"
	"deluge-submit/core/deluge/memory"
	"deluge-submit/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, opts Options) *fiber.App {
	app := fiber.New()
	handler := NewHandler(NewService(opts, zap.NewNop()))
	handler.RegisterRoutes(app)
	return app
}

func TestHandleIntegrityCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		app := setupTestApp(t, Options{Prober: memoryRegistry(memory.NewDaemon()), Deluge: deluge.Defaults()})

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["deluge"]["status"])
		assert.Equal(t, "skipped", body["storage"]["status"])
	})

	t.Run("Unhealthy", func(t *testing.T) {
		app := setupTestApp(t, Options{Prober: deluge.NewRegistry(), Deluge: deluge.Defaults()})

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	})
}

func TestHandleDelugeCheck(t *testing.T) {
	app := setupTestApp(t, Options{Prober: memoryRegistry(memory.NewDaemon()), Deluge: deluge.Defaults()})

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/deluge", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "rpc", body["generation"])
}

func TestHandleStorageCheck(t *testing.T) {
	t.Run("Fix", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(false, nil).Once()
		mockClient.On("MakeBucket", mock.Anything, "torrents", mock.Anything).Return(nil)
		emptyBucket(mockClient)
		app := setupTestApp(t, Options{Storage: mockClient, Bucket: "torrents"})

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		mockClient.AssertNumberOfCalls(t, "MakeBucket", 1)
	})

	t.Run("Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "torrents").Return(false, nil)
		app := setupTestApp(t, Options{Storage: mockClient, Bucket: "torrents"})

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		app := setupTestApp(t, Options{})

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestHandleHistoryCheck(t *testing.T) {
	app := setupTestApp(t, Options{DB: setupSQLite(t, true)})

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/history", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["matched"])
}
