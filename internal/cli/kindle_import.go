package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

const maxClippingsFileSize = 100 * 1024 * 1024 // 100 MB

// KindleImportCommand handles importing highlights from Kindle My Clippings.txt
type KindleImportCommand struct {
	ClippingsPath string
	DatabasePath  string
	OutputDir     string
	JSONPath      string
	Verbose       bool
	DryRun        bool

	Options importers.Options

	out io.Writer
}

func NewKindleImportCommand() *KindleImportCommand {
	return &KindleImportCommand{
		Options: importers.DefaultOptions(),
		out:     os.Stdout,
	}
}

func (cmd *KindleImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("kindle-import", flag.ContinueOnError)

	var lang, tagCase, excludeTypes, excludeBooks, onlyBooks string
	opts := &cmd.Options

	fs.StringVar(&cmd.ClippingsPath, "file", "", "Path to Kindle 'My Clippings.txt' file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file for storing imported highlights")
	fs.StringVar(&cmd.OutputDir, "output", "", "Output directory for markdown files (if specified, exports to Obsidian-compatible markdown)")
	fs.StringVar(&cmd.JSONPath, "json", "", "Write the import result as JSON to this file ('-' for stdout)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print per-book statistics and every warning")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.StringVar(&lang, "lang", "auto", "Kindle interface language (en, es, pt, de, fr, it, zh, ja, ko, nl, ru or auto)")
	fs.BoolVar(&opts.RemoveDuplicates, "remove-duplicates", opts.RemoveDuplicates, "Remove exact duplicates instead of flagging them")
	fs.BoolVar(&opts.MergeNotes, "merge-notes", opts.MergeNotes, "Attach notes to the highlight they annotate")
	fs.BoolVar(&opts.ExtractTags, "extract-tags", opts.ExtractTags, "Turn attached notes into tags")
	fs.StringVar(&tagCase, "tag-case", string(opts.TagCase), "Case of extracted tags: original, uppercase or lowercase")
	fs.BoolVar(&opts.MergeOverlapping, "merge-overlapping", opts.MergeOverlapping, "Merge overlapping highlights instead of flagging them")
	fs.BoolVar(&opts.HighlightsOnly, "highlights-only", opts.HighlightsOnly, "Keep only highlights")
	fs.StringVar(&excludeTypes, "exclude-types", "", "Comma-separated record types to drop (e.g. bookmark,clip)")
	fs.StringVar(&excludeBooks, "exclude-books", "", "Comma-separated book titles to drop")
	fs.StringVar(&onlyBooks, "only-books", "", "Comma-separated book titles to keep")
	fs.IntVar(&opts.MinContentLength, "min-length", 0, "Drop highlights shorter than this many characters")
	fs.Float64Var(&opts.FuzzyThreshold, "fuzzy-threshold", opts.FuzzyThreshold, "Similarity at which nearby highlights are reported as possible duplicates")
	fs.BoolVar(&opts.Strict, "strict", false, "Fail when the clippings file produces warnings")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s kindle-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import highlights from Kindle 'My Clippings.txt' to a local database.\n\n")
		fmt.Fprintf(os.Stderr, "The clippings file is typically found at:\n")
		fmt.Fprintf(os.Stderr, "  /Volumes/Kindle/documents/My Clippings.txt\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import from connected Kindle device:\n")
		fmt.Fprintf(os.Stderr, "  %s kindle-import -file \"/Volumes/Kindle/documents/My Clippings.txt\"\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import, extract tags and export to markdown:\n")
		fmt.Fprintf(os.Stderr, "  %s kindle-import -file \"My Clippings.txt\" -extract-tags -output ~/Obsidian/Highlights\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview as JSON:\n")
		fmt.Fprintf(os.Stderr, "  %s kindle-import -file \"My Clippings.txt\" -dry-run -json -\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	var err error
	if opts.Language, err = kindle.ParseLanguage(lang); err != nil {
		return err
	}
	if opts.TagCase, err = processing.ParseTagCase(tagCase); err != nil {
		return err
	}
	if opts.ExcludeTypes, err = importers.ParseTypeList(excludeTypes); err != nil {
		return err
	}
	opts.ExcludeBooks = importers.SplitList(excludeBooks)
	opts.OnlyBooks = importers.SplitList(onlyBooks)
	if opts.MinContentLength < 0 {
		return fmt.Errorf("-min-length must not be negative")
	}
	if opts.FuzzyThreshold <= 0 || opts.FuzzyThreshold > 1 {
		return fmt.Errorf("-fuzzy-threshold must be in (0, 1]")
	}

	// Keep stdout clean for the JSON document.
	if cmd.JSONPath == "-" {
		cmd.out = os.Stderr
	}

	return nil
}

func (cmd *KindleImportCommand) Run() error {
	fmt.Fprintln(cmd.out, "Kindle Import")
	fmt.Fprintln(cmd.out, "=============")

	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(cmd.out)
	}

	text, err := cmd.readClippings()
	if err != nil {
		return err
	}
	cmd.Options.SourcePath = cmd.ClippingsPath

	if cmd.DryRun {
		result, err := importers.NewPipeline(nil).Parse(text, cmd.Options)
		cmd.printResult(result)
		if jsonErr := cmd.writeJSON(result); jsonErr != nil {
			return jsonErr
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.out, "\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	markdownDir := ""
	if cmd.OutputDir != "" {
		if markdownDir, err = filepath.Abs(cmd.OutputDir); err != nil {
			return fmt.Errorf("failed to get absolute path for output: %w", err)
		}
	}

	fmt.Fprintf(cmd.out, "\nSaving to database: %s\n", cmd.DatabasePath)
	if markdownDir != "" {
		fmt.Fprintf(cmd.out, "Exporting to markdown: %s\n", markdownDir)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	exporter := exporters.NewDatabaseMarkdownExporter(db, markdownDir)
	pipeline := importers.NewPipeline(exporter).WithSessions(db)

	result, err := pipeline.Import(text, cmd.Options)
	if errors.Is(err, importers.ErrEmptyInput) {
		fmt.Fprintln(cmd.out, "Clippings file is empty, nothing to import")
		return nil
	}
	cmd.printResult(result.Result)
	if jsonErr := cmd.writeJSON(result); jsonErr != nil {
		return jsonErr
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.out, "\n=== Database Import Summary ===")
	fmt.Fprintf(cmd.out, "Books saved: %d\n", result.Export.BooksProcessed)
	fmt.Fprintf(cmd.out, "Clippings saved: %d (%d new)\n", result.Export.HighlightsProcessed, result.Export.HighlightsCreated)
	if result.Export.BooksFailed > 0 {
		fmt.Fprintf(cmd.out, "%d books failed to save\n", result.Export.BooksFailed)
	}

	fmt.Fprintln(cmd.out, "\nImport complete!")
	return nil
}

func (cmd *KindleImportCommand) readClippings() (string, error) {
	file, err := os.Open(cmd.ClippingsPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("clippings file not found: %s", cmd.ClippingsPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(cmd.out, "File: %s\n", cmd.ClippingsPath)
	return importers.ReadText(file, maxClippingsFileSize)
}

func (cmd *KindleImportCommand) writeJSON(v any) error {
	if cmd.JSONPath == "" {
		return nil
	}
	if err := exporters.WriteJSON(cmd.JSONPath, v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	if cmd.JSONPath != "-" {
		fmt.Fprintf(cmd.out, "JSON written to %s\n", cmd.JSONPath)
	}
	return nil
}

func (cmd *KindleImportCommand) printResult(result importers.Result) {
	stats := result.Stats
	fmt.Fprintf(cmd.out, "\nFound %d clippings in %d books\n", stats.Total, stats.TotalBooks)
	for _, t := range kindle.RecordTypes {
		if n := stats.ByType[t]; n > 0 {
			fmt.Fprintf(cmd.out, "  %-10s %d\n", t, n)
		}
	}

	fmt.Fprintf(cmd.out, "Duplicates removed: %d, flagged: %d\n", stats.DuplicatesRemoved, stats.DuplicatesFlagged)
	fmt.Fprintf(cmd.out, "Notes linked: %d, overlaps merged: %d\n", stats.LinkedNotes, stats.MergedHighlights)
	if stats.Suspicious > 0 {
		fmt.Fprintf(cmd.out, "Highlights to review: %d\n", stats.Suspicious)
	}
	if stats.EarliestDate != nil && stats.LatestDate != nil {
		fmt.Fprintf(cmd.out, "Date range: %s to %s\n", stats.EarliestDate.Format("2006-01-02"), stats.LatestDate.Format("2006-01-02"))
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(cmd.out, "Warnings: %d\n", len(result.Warnings))
	}

	if !cmd.Verbose {
		return
	}

	fmt.Fprintln(cmd.out, "\n=== Books Found ===")
	for i, book := range stats.Books {
		fmt.Fprintf(cmd.out, "%d. \"%s\" by %s (%d highlights, %d notes, %d bookmarks)\n",
			i+1, book.Title, book.Author, book.Highlights, book.Notes, book.Bookmarks)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(cmd.out, "\n=== Warnings ===")
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.out, "  [%s] %s\n", w.Kind, w.Message)
		}
	}
}
