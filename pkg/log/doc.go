// Package log records register console transactions.
//
// Every exchange with the register API and every editor state change can be
// captured as an Event. This is separate from operational logging (slog):
// the transaction log is a complete machine-readable trace of what was read
// from and written to the device.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	client := regapi.NewClient(url, regapi.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For a session transcript: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/regconsole/session.rlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured at two layers:
//   - HTTP: requests to and responses from the register API (ExchangeEvent)
//   - Editor: view-model state transitions (StateChangeEvent)
//
// Errors at either layer have a dedicated payload (ErrorEventData).
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .rlog extension.
// The regconsole-log tool views, exports and summarises them.
package log
