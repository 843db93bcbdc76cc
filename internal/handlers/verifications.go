package handlers

import (
	"net/http"

	"propchain/internal/model"
	"propchain/internal/status"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listPending(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.verifications.ListPending(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: result.Data, Meta: result.Meta})
}

func (h *Handler) getReview(c *gin.Context) {
	review, err := h.verifications.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

type decisionRequest struct {
	Status         model.VerificationOutcome `json:"status" binding:"required"`
	Note           string                    `json:"note"`
	VerifierWallet string                    `json:"verifier_wallet"`
}

func (h *Handler) decide(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	item, err := h.verifications.Decide(c.Request.Context(), c.Param("id"), req.Status, req.Note, req.VerifierWallet)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// listHistory вместе со страницей отдаёт вкладки фильтра по статусу
func (h *Handler) listHistory(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	selected := c.Query("status")
	var filter *model.VerificationOutcome
	if selected != "" && selected != status.AllTab {
		s := model.VerificationOutcome(selected)
		filter = &s
	}

	result, err := h.verifications.ListHistory(c.Request.Context(), filter, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	tabs := status.Tabs(status.All().Verification, selected)
	c.JSON(http.StatusOK, pagedResponse{Data: result.Data, Meta: result.Meta, Tabs: tabs})
}

func (h *Handler) listAlerts(c *gin.Context) {
	alerts, err := h.verifications.ListAlerts(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

func (h *Handler) listAnnouncements(c *gin.Context) {
	announcements, err := h.verifications.ListAnnouncements(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": announcements})
}

func (h *Handler) getDocument(c *gin.Context) {
	content, err := h.verifications.GetDocumentContent(c.Request.Context(), c.Param("hash"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(content))
}
