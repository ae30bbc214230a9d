package deluge

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Probe(t *testing.T) {
	syncFactory := func(Config) (SyncClient, error) { return nil, nil }
	asyncFactory := func(Config) (AsyncClient, error) { return nil, nil }

	tests := []struct {
		name      string
		sync      SyncFactory
		async     AsyncFactory
		expected  Generation
		expectErr error
	}{
		{name: "nothing installed", expectErr: ErrNoClient},
		{name: "legacy only", sync: syncFactory, expected: GenerationLegacy},
		{name: "rpc only", async: asyncFactory, expected: GenerationRPC},
		{name: "both prefers legacy", sync: syncFactory, async: asyncFactory, expected: GenerationLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			if tt.sync != nil {
				reg.RegisterSync(tt.sync)
			}
			if tt.async != nil {
				reg.RegisterAsync(tt.async)
			}

			c, err := reg.Probe(context.Background())
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Generation)
		})
	}
}

func TestRegistry_ProbeIsCached(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterAsync(func(Config) (AsyncClient, error) { return nil, nil })

	first, err := reg.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenerationRPC, first.Generation)

	// Installing the legacy generation later does not change the cached answer.
	reg.RegisterSync(func(Config) (SyncClient, error) { return nil, nil })
	second, err := reg.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenerationRPC, second.Generation)

	reg.Reset()
	_, err = reg.Probe(context.Background())
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestRegistry_FailedProbeIsNotCached(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Probe(context.Background())
	require.ErrorIs(t, err, ErrNoClient)

	reg.RegisterSync(func(Config) (SyncClient, error) { return nil, nil })
	c, err := reg.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenerationLegacy, c.Generation)
}

func TestRegistry_ConcurrentProbe(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSync(func(Config) (SyncClient, error) { return nil, nil })

	var wg sync.WaitGroup
	results := make([]Generation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := reg.Probe(context.Background())
			if err == nil {
				results[i] = c.Generation
			}
		}(i)
	}
	wg.Wait()

	for _, g := range results {
		assert.Equal(t, GenerationLegacy, g)
	}
}

func TestGeneration_String(t *testing.T) {
	assert.Equal(t, "legacy", GenerationLegacy.String())
	assert.Equal(t, "rpc", GenerationRPC.String())
	assert.Equal(t, "unknown", GenerationUnknown.String())
}
