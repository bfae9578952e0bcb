package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postpilot-labs/post-scheduling/internal/service/scheduler"
)

type EngagementHandler struct {
	engine *scheduler.Engine
}

func NewEngagementHandler(engine *scheduler.Engine) *EngagementHandler {
	return &EngagementHandler{
		engine: engine,
	}
}

type engagementRequest struct {
	Score *int `json:"score" binding:"required"`
}

// HandleRecord accepts an engagement score for a post. The write is
// best-effort; the response reports whether the score was applied.
func (h *EngagementHandler) HandleRecord(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	var req engagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	recorded := h.engine.RecordEngagement(ctx, postID, *req.Score)

	slog.InfoContext(ctx, "engagement feedback handled",
		slog.String("post_id", postID),
		slog.Int("score", *req.Score),
		slog.Bool("recorded", recorded),
	)

	c.JSON(http.StatusOK, gin.H{
		"post_id":  postID,
		"recorded": recorded,
	})
}
