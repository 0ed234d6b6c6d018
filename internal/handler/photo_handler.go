package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/trailmark/internal/filestore"
	"github.com/xxxsen/trailmark/internal/pkg/response"
	"github.com/xxxsen/trailmark/internal/service"
)

type PhotoHandler struct {
	photos *service.PhotoService
}

func NewPhotoHandler(photos *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "photo is required")
		return
	}
	if limit := h.photos.MaxSize(); limit > 0 && file.Size > limit {
		response.Error(c, http.StatusRequestEntityTooLarge, "too_large", "photo exceeds "+sizeLabel(limit))
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "failed to open photo")
		return
	}
	defer opened.Close()
	contentType, err := sniffContentType(opened)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "failed to read photo")
		return
	}
	photo, err := h.photos.Upload(c.Request.Context(), getUserID(c), c.Param("id"), service.PhotoUpload{
		Name:        file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Body:        opened,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, photo)
}

func (h *PhotoHandler) List(c *gin.Context) {
	items, err := h.photos.List(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	if err := h.photos.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// sniffContentType reads the head of file and rewinds it.
func sniffContentType(file filestore.ReadSeekCloser) (string, error) {
	buf := make([]byte, 512)
	read, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:read]), nil
}
