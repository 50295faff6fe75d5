package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"exam-backend/internal/extract"
	"exam-backend/internal/shared/server/respond"
)

// maxUploadBytes bounds exam document uploads.
const maxUploadBytes = 20 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/exams/analyze", h.analyze)
	rg.GET("/runs/:id", h.getRun)
	rg.GET("/history", h.history)
}

// analyze accepts a multipart exam document plus optional provider, model,
// language, custom_prompt, and curriculum fields, and queues an analysis run.
func (h *Handler) analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "missing_file", "an exam document is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "exam document exceeds 20MB", nil)
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

	cfg := RunConfig{
		Provider:     strings.ToLower(strings.TrimSpace(c.PostForm("provider"))),
		Model:        strings.TrimSpace(c.PostForm("model")),
		Language:     strings.ToLower(strings.TrimSpace(c.PostForm("language"))),
		CustomPrompt: strings.TrimSpace(c.PostForm("custom_prompt")),
		Curriculum:   strings.TrimSpace(c.PostForm("curriculum")),
	}

	run, err := h.Svc.Start(c.Request.Context(), fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"), cfg)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "document must be pdf, docx, or txt", nil)
		case errors.Is(err, ErrEmptyDocument):
			respond.Error(c, http.StatusUnprocessableEntity, "empty_document", "document contains no extractable text", nil)
		case errors.Is(err, ErrNoProvider):
			respond.Error(c, http.StatusBadRequest, "unknown_provider", err.Error(), nil)
		case errors.Is(err, ErrNoCurriculum):
			respond.Error(c, http.StatusBadRequest, "unknown_curriculum", err.Error(), nil)
		default:
			respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "could not extract text from document", nil)
		}
		return
	}

	respond.Created(c, gin.H{
		"id":       run.ID,
		"status":   run.Status,
		"provider": run.Provider,
		"model":    run.Model,
		"language": run.Language,
	})
}

// getRun returns the full run, including per-question records and the bloom
// report once processing completes. Clients poll this endpoint.
func (h *Handler) getRun(c *gin.Context) {
	run, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "run not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load run", nil)
		return
	}
	respond.OK(c, run)
}

func (h *Handler) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.Svc.History(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	respond.OK(c, gin.H{"runs": entries})
}
