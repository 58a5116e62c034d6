package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/entities"
)

// SessionReader lists recorded import runs.
type SessionReader interface {
	GetImportSessions(limit int) ([]entities.ImportSession, error)
}

type ImportsController struct {
	sessions SessionReader
}

func NewImportsController(sessions SessionReader) *ImportsController {
	return &ImportsController{sessions: sessions}
}

// ListSessions returns the most recent imports, newest first.
func (controller *ImportsController) ListSessions(c *gin.Context) {
	limit, ok := parseQueryInt(c, "limit", 20)
	if !ok {
		return
	}

	sessions, err := controller.sessions.GetImportSessions(limit)
	if err != nil {
		respondInternalError(c, err, "list import sessions")
		return
	}
	if sessions == nil {
		sessions = []entities.ImportSession{}
	}

	c.IndentedJSON(http.StatusOK, gin.H{"imports": sessions, "count": len(sessions)})
}
