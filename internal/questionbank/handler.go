package questionbank

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"exam-backend/internal/shared/server/respond"
)

type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bank", h.list)
	rg.POST("/bank", h.add)
	rg.GET("/bank/stats", h.stats)
	rg.DELETE("/bank/:id", h.remove)
}

type addRequest struct {
	QuestionText       string `json:"questionText" binding:"required"`
	BloomLevel         string `json:"bloomLevel"`
	Difficulty         string `json:"difficulty"`
	Subject            string `json:"subject"`
	CurriculumStandard string `json:"curriculumStandard"`
	CorrectOption      string `json:"correctOption"`
	SourceFilename     string `json:"sourceFilename"`
}

func (h *Handler) add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "questionText is required", nil)
		return
	}
	if strings.TrimSpace(req.QuestionText) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "questionText is required", nil)
		return
	}

	q := Question{
		ID:                 uuid.NewString(),
		QuestionText:       strings.TrimSpace(req.QuestionText),
		BloomLevel:         strings.TrimSpace(req.BloomLevel),
		Difficulty:         strings.TrimSpace(req.Difficulty),
		Subject:            strings.TrimSpace(req.Subject),
		CurriculumStandard: strings.TrimSpace(req.CurriculumStandard),
		CorrectOption:      strings.TrimSpace(req.CorrectOption),
		SourceFilename:     strings.TrimSpace(req.SourceFilename),
		AddedAt:            time.Now().UTC(),
	}
	if err := h.Repo.Add(c.Request.Context(), q); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save question", nil)
		return
	}
	respond.Created(c, q)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	questions, err := h.Repo.List(c.Request.Context(), Filter{
		BloomLevel: strings.TrimSpace(c.Query("bloom_level")),
		Subject:    strings.TrimSpace(c.Query("subject")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load questions", nil)
		return
	}
	if questions == nil {
		questions = []Question{}
	}
	respond.OK(c, gin.H{"questions": questions})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "question not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete question", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": c.Param("id")})
}
