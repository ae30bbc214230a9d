// Package memory provides an in-process Deluge daemon with both client generations.
//
// It backs `submit --test` runs and the engine tests. Torrent ids are content hashes,
// labels require the label plugin to be enabled, and failures can be injected
// through FailConnect and FailAdd.
//
//	d := memory.NewDaemon()
//	d.Install(reg, false, true) // RPC generation only
package memory
