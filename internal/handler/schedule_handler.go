package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
	"github.com/postpilot-labs/post-scheduling/internal/service/scheduler"
)

const timeFormat = time.RFC3339

type ScheduleHandler struct {
	engine *scheduler.Engine
}

func NewScheduleHandler(engine *scheduler.Engine) *ScheduleHandler {
	return &ScheduleHandler{
		engine: engine,
	}
}

// referenceTime resolves the scheduling reference instant. The optional
// "from" query overrides the wall clock so decisions can be previewed
// and tested against a fixed point in time.
func referenceTime(c *gin.Context) (time.Time, error) {
	raw := c.Query("from")
	if raw == "" {
		return time.Now().UTC(), nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// HandleNextSlot previews the next available slot without committing it.
func (h *ScheduleHandler) HandleNextSlot(c *gin.Context) {
	ctx := c.Request.Context()

	now, err := referenceTime(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid from parameter: "+err.Error())
		return
	}

	instant, err := h.engine.AllocateNextSlot(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "slot allocation failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "allocation_error", "failed to allocate slot")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"next_slot": instant.Format(timeFormat),
	})
}

// HandleSchedule allocates a slot and commits it onto the named post.
func (h *ScheduleHandler) HandleSchedule(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	now, err := referenceTime(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid from parameter: "+err.Error())
		return
	}

	slog.InfoContext(ctx, "handling schedule request",
		slog.String("post_id", postID),
		slog.Time("reference_time", now),
	)

	result, err := h.engine.CommitSchedule(ctx, postID, now)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			respondNotFound(c, "post not found")
			return
		}
		slog.ErrorContext(ctx, "failed to commit schedule",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "scheduling_error", "failed to schedule post")
		return
	}

	resp := gin.H{
		"post_id":       result.PostID,
		"scheduled_for": result.ScheduledFor.Format(timeFormat),
		"mode":          result.Mode.String(),
		"calendar":      result.Calendar,
	}
	if result.PublishTaskName != "" {
		resp["publish_task"] = result.PublishTaskName
	}

	c.JSON(http.StatusOK, resp)
}
