package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
	"github.com/postpilot-labs/post-scheduling/internal/service/campaign"
)

type LeadHandler struct {
	policy *campaign.Policy
}

func NewLeadHandler(policy *campaign.Policy) *LeadHandler {
	return &LeadHandler{
		policy: policy,
	}
}

type importLeadRequest struct {
	Email   string `json:"email" binding:"required"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Source  string `json:"source"`
	Score   int    `json:"score"`
}

type importLeadsRequest struct {
	Leads []importLeadRequest `json:"leads" binding:"required,min=1"`
}

func (h *LeadHandler) HandleImport(c *gin.Context) {
	ctx := c.Request.Context()

	var req importLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	leads := make([]*domain.Lead, 0, len(req.Leads))
	for _, in := range req.Leads {
		lead := domain.NewLead(in.Email, in.Name, in.Score)
		lead.Company = in.Company
		lead.Source = in.Source
		leads = append(leads, lead)
	}

	if err := h.policy.ImportLeads(ctx, leads); err != nil {
		slog.ErrorContext(ctx, "failed to import leads",
			slog.Int("count", len(leads)),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to import leads")
		return
	}

	slog.InfoContext(ctx, "leads imported",
		slog.Int("count", len(leads)),
	)

	c.JSON(http.StatusCreated, gin.H{"imported": len(leads)})
}

// HandleEligible lists leads whose contact-frequency window has elapsed.
func (h *LeadHandler) HandleEligible(c *gin.Context) {
	ctx := c.Request.Context()

	now, err := referenceTime(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid from parameter: "+err.Error())
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid limit parameter")
			return
		}
	}

	eligible, err := h.policy.EligibleLeads(ctx, now, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to evaluate campaign eligibility",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to list eligible leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": eligible, "count": len(eligible)})
}

func (h *LeadHandler) HandleMarkContacted(c *gin.Context) {
	ctx := c.Request.Context()
	leadID := c.Param("id")

	if err := h.policy.MarkContacted(ctx, leadID, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			respondNotFound(c, "lead not found")
			return
		}
		slog.ErrorContext(ctx, "failed to record lead contact",
			slog.String("lead_id", leadID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to record contact")
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead_id": leadID, "contacted": true})
}
