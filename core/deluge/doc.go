// Package deluge defines the boundary between the submission engine and a Deluge daemon.
//
// The engine does not speak the daemon's wire protocol. Instead it consumes one of two
// client generations:
//
//   - SyncClient: the legacy generation. Calls block and AddTorrentFile does not
//     report the id the daemon assigned, so the caller must diff session snapshots.
//   - AsyncClient: the RPC generation. Calls return a Future and AddTorrentFile
//     resolves with the new id (empty when the torrent was already loaded).
//
// # Capability Probe
//
// Wire clients install themselves into a Registry. Registry.Probe picks the generation
// once and caches it, preferring the legacy generation when both are present.
//
// # Configuration
//
// Config carries host, port, credentials and the post-add templates. Resolve accepts
// the shorthand forms used in run manifests:
//
//	cfg, err := deluge.Resolve(true)                                  // enabled, defaults
//	cfg, err := deluge.Resolve(map[string]any{"label": "TV", "port": 58847})
//
// # Testing
//
// The memory subpackage provides an in-process daemon implementing both generations,
// and the mocks subpackage provides testify mocks.
package deluge
