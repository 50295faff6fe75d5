package rag

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"exam-backend/internal/extract"
	"exam-backend/internal/shared/server/respond"
)

// maxCurriculumBytes bounds curriculum uploads.
const maxCurriculumBytes = 10 << 20

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/curricula", h.list)
	rg.POST("/curricula", h.upload)
	rg.PUT("/curricula/:name/activate", h.activate)
	rg.DELETE("/curricula/:name", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"curricula": h.Store.Names(),
		"active":    h.Store.Active(),
	})
}

// upload accepts a curriculum file (pdf, docx, or txt) and registers its
// extracted text under the given name, defaulting to the filename.
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "missing_file", "a curriculum file is required", nil)
		return
	}
	if fileHeader.Size > maxCurriculumBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "curriculum file exceeds 10MB", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_file", "could not open uploaded file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_file", "could not read uploaded file", nil)
		return
	}

	text, err := extract.FromBytes(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "curriculum must be pdf, docx, or txt", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "could not extract text from curriculum", nil)
		return
	}
	if strings.TrimSpace(text) == "" {
		respond.Error(c, http.StatusUnprocessableEntity, "empty_document", "curriculum contains no extractable text", nil)
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = fileHeader.Filename
	}
	sections := h.Store.Add(name, text)

	respond.Created(c, gin.H{"name": name, "sections": sections, "active": h.Store.Active()})
}

func (h *Handler) activate(c *gin.Context) {
	name := c.Param("name")
	if err := h.Store.SetActive(name); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "curriculum not found", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"active": name})
}

func (h *Handler) remove(c *gin.Context) {
	name := c.Param("name")
	if err := h.Store.Remove(name); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "curriculum not found", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"removed": name})
}
