// Package audit writes the per-run diagnostic log.
//
// A run appends labeled sections to a single file in the logs directory:
//
//	--- CONFIGURATION ---
//	{
//	  "provider": "google",
//	  ...
//	}
//
// Each section body is indented JSON (Record) or raw text (RecordText).
// Logging is best-effort: a value that cannot be serialized produces a
// "<LABEL> LOGGING ERROR" section, and write failures are reported through
// slog once and otherwise ignored. Nothing in this package aborts a run.
package audit
