package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

type (
	Config struct {
		HTTP
		Markdown
		Global
		Database
		Clippings
		KindleSync
	}

	HTTP struct {
		Port int32
		Host string
	}
	Markdown struct {
		ExportDir string // Directory for markdown exports, empty disables them
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Clippings struct {
		Path             string // My Clippings.txt used by the scheduled import
		Language         string
		RemoveDuplicates bool
		MergeNotes       bool
		ExtractTags      bool
		TagCase          string
		MergeOverlapping bool
		FuzzyThreshold   float64
	}
	KindleSync struct {
		Enabled  bool
		Schedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("markdown_export_dir", "")

	// Clippings import defaults
	v.SetDefault("clippings_path", "")
	v.SetDefault("clippings_language", "auto")
	v.SetDefault("clippings_remove_duplicates", true)
	v.SetDefault("clippings_merge_notes", true)
	v.SetDefault("clippings_extract_tags", false)
	v.SetDefault("clippings_tag_case", "original")
	v.SetDefault("clippings_merge_overlapping", false)
	v.SetDefault("clippings_fuzzy_threshold", processing.DefaultFuzzyThreshold)

	v.SetDefault("kindle_sync_enabled", false)
	v.SetDefault("kindle_sync_schedule", DefaultKindleSyncSchedule)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Markdown: Markdown{
			ExportDir: v.GetString("MARKDOWN_EXPORT_DIR"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Clippings: Clippings{
			Path:             v.GetString("CLIPPINGS_PATH"),
			Language:         v.GetString("CLIPPINGS_LANGUAGE"),
			RemoveDuplicates: v.GetBool("CLIPPINGS_REMOVE_DUPLICATES"),
			MergeNotes:       v.GetBool("CLIPPINGS_MERGE_NOTES"),
			ExtractTags:      v.GetBool("CLIPPINGS_EXTRACT_TAGS"),
			TagCase:          v.GetString("CLIPPINGS_TAG_CASE"),
			MergeOverlapping: v.GetBool("CLIPPINGS_MERGE_OVERLAPPING"),
			FuzzyThreshold:   v.GetFloat64("CLIPPINGS_FUZZY_THRESHOLD"),
		},
		KindleSync: KindleSync{
			Enabled:  v.GetBool("KINDLE_SYNC_ENABLED"),
			Schedule: v.GetString("KINDLE_SYNC_SCHEDULE"),
		},
	}
}

// ImportOptions converts the configured clippings settings into pipeline
// options. Per-request settings (filters, strict mode) start from here.
func (c Clippings) ImportOptions() (importers.Options, error) {
	opts := importers.DefaultOptions()

	lang, err := kindle.ParseLanguage(c.Language)
	if err != nil {
		return opts, fmt.Errorf("invalid CLIPPINGS_LANGUAGE: %w", err)
	}
	tagCase, err := processing.ParseTagCase(c.TagCase)
	if err != nil {
		return opts, fmt.Errorf("invalid CLIPPINGS_TAG_CASE: %w", err)
	}

	opts.Language = lang
	opts.RemoveDuplicates = c.RemoveDuplicates
	opts.MergeNotes = c.MergeNotes
	opts.ExtractTags = c.ExtractTags
	opts.TagCase = tagCase
	opts.MergeOverlapping = c.MergeOverlapping
	if c.FuzzyThreshold > 0 {
		opts.FuzzyThreshold = c.FuzzyThreshold
	}
	opts.SourcePath = c.Path
	return opts, nil
}
