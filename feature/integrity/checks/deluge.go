package checks

import (
	"context"
	"fmt"

	"deluge-submit/core/deluge"
)

// Prober detects the installed client generation.
type Prober interface {
	Probe(ctx context.Context) (deluge.Capability, error)
}

// DelugeReport describes the reachable daemon.
type DelugeReport struct {
	Generation string `json:"generation"`
	Address    string `json:"address"`
	// Torrents is the session size. Only the legacy generation reports it.
	Torrents *int `json:"torrents,omitempty"`
}

// CheckDeluge detects the installed client generation and opens, then closes,
// one session against the configured daemon.
func CheckDeluge(ctx context.Context, prober Prober, cfg deluge.Config) (*DelugeReport, error) {
	c, err := prober.Probe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detect deluge client: %w", err)
	}

	report := &DelugeReport{Generation: c.Generation.String(), Address: cfg.Address()}
	switch c.Generation {
	case deluge.GenerationLegacy:
		client, err := c.NewSync(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Address(), err)
		}
		defer client.Close()

		ids, err := client.SessionState(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read session state: %w", err)
		}
		n := len(ids)
		report.Torrents = &n

	case deluge.GenerationRPC:
		client, err := c.NewAsync(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %s: %w", cfg.Address(), err)
		}
		_, err = client.Connect(ctx, deluge.ConnectOptions{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.User,
			Password: cfg.Pass,
		}).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Address(), err)
		}
		if _, err := client.Disconnect(ctx).Result(); err != nil {
			return nil, fmt.Errorf("failed to disconnect from %s: %w", cfg.Address(), err)
		}

	default:
		return nil, deluge.ErrNoClient
	}

	return report, nil
}
