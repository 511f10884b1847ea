// Package logging provides structured logging on top of zerolog.
//
// Create a logger with configuration:
//
//	log, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stderr",
//	})
//
// Key-value pairs follow the message:
//
//	log.Warn("ignoring malformed control", "oid", oid, "error", err.Error())
//
// WithFields returns a child logger that adds the fields to every entry.
// For tests, NewNop discards everything and NewWithWriter captures output.
package logging
