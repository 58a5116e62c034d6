// Package importers runs a Kindle My Clippings.txt import end to end.
//
// # Flow
//
//	text → kindle.Parser → processing.Run → Result → ToBooks → Exporter → Storage
//
// Parse stops after processing and is what the dry-run CLI and the
// /api/clippings/parse endpoint use. Import additionally groups the
// records into books and hands them to the configured Exporter
// (usually exporters.DatabaseMarkdownExporter).
//
// # Strict mode
//
// Parsing is lenient: malformed blocks become warnings and the best-effort
// records are still returned. With Options.Strict set, Parse returns
// ErrStrict together with the full result whenever warnings exist, and
// Import refuses to export anything.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(exporter).WithSessions(db)
//
//	opts := importers.DefaultOptions()
//	opts.ExtractTags = true
//	result, err := pipeline.Import(text, opts)
package importers
