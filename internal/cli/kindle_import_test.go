package cli

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

const twoHighlights = `Dune (Frank Herbert)
- Your Highlight on page 10 | Location 150-152 | Added on Monday, March 4, 2024 8:15:00 PM

I must not fear. Fear is the mind-killer.
==========
Dune (Frank Herbert)
- Your Highlight on page 42 | Location 610-612 | Added on Tuesday, March 5, 2024 9:00:00 PM

The mystery of life isn't a problem to solve, but a reality to experience.
==========
`

func writeClippings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "My Clippings.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestCommand(t *testing.T, args ...string) *KindleImportCommand {
	t.Helper()
	cmd := NewKindleImportCommand()
	require.NoError(t, cmd.ParseFlags(args))
	cmd.out = io.Discard
	return cmd
}

func TestKindleImportCommand_ParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := newTestCommand(t, "-file", "clippings.txt")

		assert.Equal(t, "clippings.txt", cmd.ClippingsPath)
		assert.Equal(t, kindle.LanguageAuto, cmd.Options.Language)
		assert.True(t, cmd.Options.RemoveDuplicates)
		assert.True(t, cmd.Options.MergeNotes)
		assert.False(t, cmd.Options.Strict)
		assert.Equal(t, processing.TagCaseOriginal, cmd.Options.TagCase)
	})

	t.Run("all options", func(t *testing.T) {
		cmd := newTestCommand(t,
			"-file", "clippings.txt",
			"-lang", "de",
			"-remove-duplicates=false",
			"-extract-tags",
			"-tag-case", "lowercase",
			"-exclude-types", "bookmark,clip",
			"-only-books", "Dune, Emma",
			"-min-length", "10",
			"-strict",
			"-dry-run",
		)

		assert.Equal(t, kindle.German, cmd.Options.Language)
		assert.False(t, cmd.Options.RemoveDuplicates)
		assert.True(t, cmd.Options.ExtractTags)
		assert.Equal(t, processing.TagCaseLowercase, cmd.Options.TagCase)
		assert.Equal(t, []kindle.RecordType{kindle.TypeBookmark, kindle.TypeClip}, cmd.Options.ExcludeTypes)
		assert.Equal(t, []string{"Dune", "Emma"}, cmd.Options.OnlyBooks)
		assert.Equal(t, 10, cmd.Options.MinContentLength)
		assert.True(t, cmd.Options.Strict)
		assert.True(t, cmd.DryRun)
	})

	t.Run("invalid", func(t *testing.T) {
		cases := map[string][]string{
			"missing file":    {},
			"unknown lang":    {"-file", "x", "-lang", "klingon"},
			"bad tag case":    {"-file", "x", "-tag-case", "title"},
			"bad type":        {"-file", "x", "-exclude-types", "poem"},
			"negative length": {"-file", "x", "-min-length", "-1"},
			"bad threshold":   {"-file", "x", "-fuzzy-threshold", "1.5"},
		}
		for name, args := range cases {
			t.Run(name, func(t *testing.T) {
				cmd := NewKindleImportCommand()
				assert.Error(t, cmd.ParseFlags(args))
			})
		}
	})
}

func TestKindleImportCommand_DryRunWritesJSON(t *testing.T) {
	path := writeClippings(t, twoHighlights)
	jsonPath := filepath.Join(t.TempDir(), "out.json")
	dbPath := filepath.Join(t.TempDir(), "clippings.db")

	cmd := newTestCommand(t, "-file", path, "-dry-run", "-json", jsonPath, "-db", dbPath, "-verbose")
	require.NoError(t, cmd.Run())

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var result importers.Result
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.TotalBooks)
	assert.Equal(t, "Dune", result.Records[0].Title)

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "dry run must not create the database")
}

func TestKindleImportCommand_ImportsIntoDatabase(t *testing.T) {
	path := writeClippings(t, twoHighlights)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "clippings.db")
	outputDir := filepath.Join(dir, "markdown")

	cmd := newTestCommand(t, "-file", path, "-db", dbPath, "-output", outputDir)
	require.NoError(t, cmd.Run())

	// Re-importing the same file adds nothing.
	cmd = newTestCommand(t, "-file", path, "-db", dbPath)
	require.NoError(t, cmd.Run())

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	books, err := db.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Len(t, books[0].Highlights, 2)

	sessions, err := db.GetImportSessions(10)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	entries, err := os.ReadDir(filepath.Join(outputDir, "kindle"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestKindleImportCommand_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cmd := newTestCommand(t, "-file", filepath.Join(t.TempDir(), "nope.txt"), "-dry-run")
		err := cmd.Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "clippings file not found")
	})

	t.Run("strict mode with warnings", func(t *testing.T) {
		path := writeClippings(t, twoHighlights+"Lonely Book (Someone)\nthis line should have been metadata\n==========\n")
		jsonPath := filepath.Join(t.TempDir(), "out.json")

		cmd := newTestCommand(t, "-file", path, "-dry-run", "-strict", "-json", jsonPath)
		err := cmd.Run()
		require.Error(t, err)
		assert.True(t, errors.Is(err, importers.ErrStrict))

		// The report is still written so the warnings can be inspected.
		data, readErr := os.ReadFile(jsonPath)
		require.NoError(t, readErr)
		var result importers.Result
		require.NoError(t, json.Unmarshal(data, &result))
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("empty file is not an error", func(t *testing.T) {
		path := writeClippings(t, "")
		cmd := newTestCommand(t, "-file", path, "-db", filepath.Join(t.TempDir(), "clippings.db"))
		assert.NoError(t, cmd.Run())
	})
}
