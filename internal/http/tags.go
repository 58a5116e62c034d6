package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/clippings/internal/entities"
)

// TagStore defines the read operations for tags and single highlights.
type TagStore interface {
	GetAllTags() ([]entities.Tag, error)
	GetHighlightByClippingID(clippingID string) (*entities.Highlight, error)
}

type TagsController struct {
	store TagStore
}

func NewTagsController(store TagStore) *TagsController {
	return &TagsController{store: store}
}

// GetAllTags returns every tag extracted from imported notes
// GET /api/tags
func (tc *TagsController) GetAllTags(c *gin.Context) {
	tags, err := tc.store.GetAllTags()
	if err != nil {
		respondInternalError(c, err, "get all tags")
		return
	}
	if tags == nil {
		tags = []entities.Tag{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags, "count": len(tags)})
}

// GetHighlight looks a highlight up by the clipping id assigned at parse time
// GET /api/highlights/:clipping_id
func (tc *TagsController) GetHighlight(c *gin.Context) {
	highlight, err := tc.store.GetHighlightByClippingID(c.Param("clipping_id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "highlight")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get highlight")
		return
	}
	c.JSON(http.StatusOK, highlight)
}
