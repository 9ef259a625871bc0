// Package logtail reads cardboard's own log file for the logs command.
//
// Read keeps a ring buffer of the last N lines so large files are scanned
// once without being held in memory. Level and Filter understand the
// level=NAME field written by slog's text handler.
package logtail
