package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

type PostHandler struct {
	repo domain.PostRepository
}

func NewPostHandler(repo domain.PostRepository) *PostHandler {
	return &PostHandler{
		repo: repo,
	}
}

type createPostRequest struct {
	Platform           string `json:"platform" binding:"required"`
	Content            string `json:"content" binding:"required"`
	ImageURL           string `json:"image_url"`
	BusinessName       string `json:"business_name"`
	ProductDescription string `json:"product_description"`
	TargetAudience     string `json:"target_audience"`
}

type postResponse struct {
	ID                string  `json:"id"`
	Platform          string  `json:"platform"`
	Content           string  `json:"content"`
	ImageURL          string  `json:"image_url,omitempty"`
	BusinessName      string  `json:"business_name,omitempty"`
	Status            string  `json:"status"`
	ScheduledFor      *string `json:"scheduled_for,omitempty"`
	EngagementScore   *int    `json:"engagement_score,omitempty"`
	CalendarEventID   string  `json:"calendar_event_id,omitempty"`
	CalendarEventLink string  `json:"calendar_event_link,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func toPostResponse(post *domain.Post) postResponse {
	resp := postResponse{
		ID:                post.ID,
		Platform:          post.Platform,
		Content:           post.Content,
		ImageURL:          post.ImageURL,
		BusinessName:      post.BusinessName,
		Status:            post.Status.String(),
		EngagementScore:   post.EngagementScore,
		CalendarEventID:   post.CalendarEventID,
		CalendarEventLink: post.CalendarEventLink,
		CreatedAt:         post.CreatedAt.Format(timeFormat),
	}
	if post.ScheduledFor != nil {
		s := post.ScheduledFor.Format(timeFormat)
		resp.ScheduledFor = &s
	}
	return resp
}

func (h *PostHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "create post request validation failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	post := domain.NewPost(req.Platform, req.Content)
	post.ImageURL = req.ImageURL
	post.BusinessName = req.BusinessName
	post.ProductDescription = req.ProductDescription
	post.TargetAudience = req.TargetAudience

	if err := h.repo.SavePost(ctx, post); err != nil {
		slog.ErrorContext(ctx, "failed to save post",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save post")
		return
	}

	slog.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("platform", post.Platform),
	)

	c.JSON(http.StatusCreated, toPostResponse(post))
}

func (h *PostHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.ListFilter{
		Status:   domain.Status(c.Query("status")),
		Platform: c.Query("platform"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(c, http.StatusBadRequest, "validation_error", "unknown status: "+filter.Status.String())
		return
	}

	posts, err := h.repo.ListPosts(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list posts",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to list posts")
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}

	c.JSON(http.StatusOK, gin.H{"posts": resp, "count": len(resp)})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PostHandler) HandleUpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	status := domain.Status(req.Status)
	updated, err := h.repo.UpdateStatus(ctx, postID, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			respondError(c, http.StatusBadRequest, "validation_error", "unknown status: "+req.Status)
			return
		}
		slog.ErrorContext(ctx, "failed to update post status",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to update status")
		return
	}
	if !updated {
		respondNotFound(c, "post not found")
		return
	}

	slog.InfoContext(ctx, "post status updated",
		slog.String("post_id", postID),
		slog.String("status", status.String()),
	)

	c.JSON(http.StatusOK, gin.H{"id": postID, "status": status.String()})
}
