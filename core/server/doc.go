// Package server holds the HTTP server configuration.
//
// The serve command builds its Fiber app from this Config: the listen port, the
// API key that guards the history and archive routes, and the request read timeout.
//
// # Usage
//
//	if err := cfg.Server.Validate(); err != nil {
//	    return err
//	}
//	app.Listen(cfg.Server.Address())
package server
