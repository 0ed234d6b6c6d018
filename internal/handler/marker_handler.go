package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/trailmark/internal/pkg/response"
	"github.com/xxxsen/trailmark/internal/repo"
	"github.com/xxxsen/trailmark/internal/service"
)

type MarkerHandler struct {
	markers *service.MarkerService
}

func NewMarkerHandler(markers *service.MarkerService) *MarkerHandler {
	return &MarkerHandler{markers: markers}
}

type markerRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Weather     string   `json:"weather"`
	Date        string   `json:"date"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Tags        []string `json:"tags"`
}

func (r markerRequest) input() service.MarkerInput {
	return service.MarkerInput{
		Title:       r.Title,
		Description: r.Description,
		Weather:     r.Weather,
		Date:        r.Date,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Tags:        r.Tags,
	}
}

func (h *MarkerHandler) List(c *gin.Context) {
	filter := repo.MarkerFilter{From: c.Query("from"), To: c.Query("to")}
	items, err := h.markers.List(c.Request.Context(), getUserID(c), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *MarkerHandler) Create(c *gin.Context) {
	var req markerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	marker, err := h.markers.Create(c.Request.Context(), getUserID(c), req.input())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, marker)
}

func (h *MarkerHandler) Update(c *gin.Context) {
	var req markerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	marker, err := h.markers.Update(c.Request.Context(), getUserID(c), c.Param("id"), req.input())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, marker)
}

func (h *MarkerHandler) Delete(c *gin.Context) {
	if err := h.markers.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *MarkerHandler) Tags(c *gin.Context) {
	names, err := h.markers.ListTags(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, names)
}
