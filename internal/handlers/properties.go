package handlers

import (
	"net/http"

	"propchain/internal/pagination"

	"github.com/gin-gonic/gin"
)

type pagedResponse struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
	Tabs any             `json:"tabs,omitempty"`
}

func (h *Handler) listProperties(c *gin.Context) {
	filter, err := propertyFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	page, err := pageRequest(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.listings.ListProperties(c.Request.Context(), filter, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse{Data: result.Data, Meta: result.Meta})
}

func (h *Handler) getProperty(c *gin.Context) {
	property, err := h.listings.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

type submitRequest struct {
	OwnerWallet string `json:"owner_wallet" binding:"required"`
}

func (h *Handler) submitForVerification(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "owner_wallet is required")
		return
	}

	pending, err := h.verifications.Submit(c.Request.Context(), c.Param("id"), req.OwnerWallet)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pending)
}
