package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

const (
	maxClippingsFileSize = 10 * 1024 * 1024 // 10 MB
	clippingsFormField   = "clippings_file"
)

// ClippingsController accepts a My Clippings.txt upload, either as the
// clippings_file multipart field or as the raw request body.
type ClippingsController struct {
	pipeline *importers.Pipeline
	defaults importers.Options
}

func NewClippingsController(pipeline *importers.Pipeline, defaults importers.Options) *ClippingsController {
	return &ClippingsController{
		pipeline: pipeline,
		defaults: defaults,
	}
}

// Parse runs the import pipeline without storing anything.
func (c *ClippingsController) Parse(ctx *gin.Context) {
	text, opts, ok := c.readRequest(ctx)
	if !ok {
		return
	}

	result, err := c.pipeline.Parse(text, opts)
	if errors.Is(err, importers.ErrStrict) {
		respondStrict(ctx, err, result.Warnings)
		return
	}
	if err != nil {
		respondInternalError(ctx, err, "parse clippings")
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Import parses the upload and stores the resulting books.
func (c *ClippingsController) Import(ctx *gin.Context) {
	text, opts, ok := c.readRequest(ctx)
	if !ok {
		return
	}

	result, err := c.pipeline.Import(text, opts)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, result)
	case errors.Is(err, importers.ErrEmptyInput):
		respondBadRequest(ctx, err.Error())
	case errors.Is(err, importers.ErrStrict):
		respondStrict(ctx, err, result.Warnings)
	case errors.Is(err, importers.ErrNoExporter):
		ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		respondInternalError(ctx, err, "import clippings")
	}
}

func (c *ClippingsController) readRequest(ctx *gin.Context) (string, importers.Options, bool) {
	opts, err := optionsFromQuery(ctx, c.defaults)
	if err != nil {
		respondBadRequest(ctx, err.Error())
		return "", opts, false
	}

	text, err := readClippings(ctx)
	if errors.Is(err, importers.ErrTooLarge) {
		ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("File too large (max %d MB)", maxClippingsFileSize/(1024*1024)),
		})
		return "", opts, false
	}
	if err != nil {
		respondBadRequest(ctx, err.Error())
		return "", opts, false
	}

	return text, opts, true
}

func readClippings(ctx *gin.Context) (string, error) {
	if !strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		return importers.ReadText(ctx.Request.Body, maxClippingsFileSize)
	}

	file, header, err := ctx.Request.FormFile(clippingsFormField)
	if err != nil {
		return "", errors.New("clippings file not provided")
	}
	defer file.Close()

	if header.Size > maxClippingsFileSize {
		return "", importers.ErrTooLarge
	}
	return importers.ReadText(file, maxClippingsFileSize)
}

func respondStrict(ctx *gin.Context, err error, warnings []kindle.Warning) {
	ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   err.Error(),
		Code:    "strict_mode",
		Details: warnings,
	})
}

// optionsFromQuery overrides defaults with the request's query parameters.
func optionsFromQuery(ctx *gin.Context, defaults importers.Options) (importers.Options, error) {
	opts := defaults

	if value, ok := ctx.GetQuery("lang"); ok {
		lang, err := kindle.ParseLanguage(value)
		if err != nil {
			return opts, err
		}
		opts.Language = lang
	}
	if value, ok := ctx.GetQuery("tag_case"); ok {
		tagCase, err := processing.ParseTagCase(value)
		if err != nil {
			return opts, err
		}
		opts.TagCase = tagCase
	}

	flags := map[string]*bool{
		"remove_duplicates": &opts.RemoveDuplicates,
		"merge_notes":       &opts.MergeNotes,
		"extract_tags":      &opts.ExtractTags,
		"merge_overlapping": &opts.MergeOverlapping,
		"highlights_only":   &opts.HighlightsOnly,
		"strict":            &opts.Strict,
	}
	for name, target := range flags {
		value, ok := ctx.GetQuery(name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return opts, fmt.Errorf("invalid %s: %q", name, value)
		}
		*target = parsed
	}

	if value, ok := ctx.GetQuery("exclude_types"); ok {
		types, err := importers.ParseTypeList(value)
		if err != nil {
			return opts, err
		}
		opts.ExcludeTypes = types
	}
	if value, ok := ctx.GetQuery("exclude_books"); ok {
		opts.ExcludeBooks = importers.SplitList(value)
	}
	if value, ok := ctx.GetQuery("only_books"); ok {
		opts.OnlyBooks = importers.SplitList(value)
	}
	if value, ok := ctx.GetQuery("min_length"); ok {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid min_length: %q", value)
		}
		opts.MinContentLength = n
	}
	if value, ok := ctx.GetQuery("fuzzy_threshold"); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || f > 1 {
			return opts, fmt.Errorf("invalid fuzzy_threshold: %q", value)
		}
		opts.FuzzyThreshold = f
	}

	return opts, nil
}
