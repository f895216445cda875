// Package app wires configuration, logging, the booking client and the UI
// together. It is the composition root for both ways courtcheck runs.
//
// # Interactive mode
//
// Run loads the config, opens the file logger (the terminal belongs to the
// TUI), builds the sportcenter client and a shared state.Store, then hands
// control to ui.Run until the user quits or the context is cancelled.
//
//	Run()
//	  ├─> config.Load()          TOML file, .env, COURTCHECK_* overrides
//	  ├─> logging.New()          JSON lines to log_file
//	  ├─> sportcenter.NewClient()
//	  └─> ui.Run()               form -> availability.RunCheck -> store -> view
//
// # One-shot mode
//
// RunOnce parses the date flags, runs a single check through the same
// availability.RunCheck path, and writes the days as a table, JSON or YAML.
// Logs go to stderr through a console writer so stdout stays clean for
// piping.
//
// # Errors
//
// Config, flag and output errors are returned. Failures of individual
// locations are never errors here: they travel with each day's results.
package app
