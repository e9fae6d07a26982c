package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type AuditHandler struct {
	repo usecase.AuditRepo
}

func NewAuditHandler(repo usecase.AuditRepo) *AuditHandler {
	return &AuditHandler{repo: repo}
}

func (h *AuditHandler) ListSessions(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sessions, err := h.repo.ListSessions(ctx)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession returns one session together with its recorded events.
func (h *AuditHandler) GetSession(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	session, err := h.repo.GetSession(ctx, c.Param("id"))
	if err != nil {
		writeRepoError(c, err)
		return
	}
	events, err := h.repo.ListEvents(ctx, session.ID)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "events": events})
}
