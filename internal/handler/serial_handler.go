package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/trailmark/internal/pkg/response"
	"github.com/xxxsen/trailmark/internal/service"
)

type SerialHandler struct {
	serials *service.SerialService
}

func NewSerialHandler(serials *service.SerialService) *SerialHandler {
	return &SerialHandler{serials: serials}
}

type serialRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Color       string   `json:"color" binding:"omitempty,hexcolor"`
	Markers     []string `json:"markers"`
}

func (r serialRequest) input() service.SerialInput {
	return service.SerialInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Markers:     r.Markers,
	}
}

func (h *SerialHandler) List(c *gin.Context) {
	items, err := h.serials.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *SerialHandler) Get(c *gin.Context) {
	detail, err := h.serials.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *SerialHandler) Create(c *gin.Context) {
	var req serialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	serial, err := h.serials.Create(c.Request.Context(), getUserID(c), req.input())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, serial)
}

func (h *SerialHandler) Update(c *gin.Context) {
	var req serialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	serial, err := h.serials.Update(c.Request.Context(), getUserID(c), c.Param("id"), req.input())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, serial)
}

func (h *SerialHandler) Delete(c *gin.Context) {
	if err := h.serials.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
