package generate

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"exam-backend/internal/llm"
	"exam-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
	rg.POST("/questions/improve", h.improve)
}

type generateRequest struct {
	Provider   string `json:"provider"`
	Subject    string `json:"subject" binding:"required"`
	BloomLevel string `json:"bloomLevel" binding:"required"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "subject and bloomLevel are required", nil)
		return
	}

	questions, err := h.Svc.Generate(c.Request.Context(),
		strings.ToLower(strings.TrimSpace(req.Provider)),
		req.Subject, req.BloomLevel, req.Difficulty, req.Count)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respond.Error(c, http.StatusBadRequest, "unknown_provider", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "generation_failed", "could not generate questions", nil)
		return
	}
	respond.OK(c, gin.H{"questions": questions})
}

type improveRequest struct {
	Provider     string `json:"provider"`
	QuestionText string `json:"questionText" binding:"required"`
	Suggestion   string `json:"suggestion" binding:"required"`
}

func (h *Handler) improve(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "questionText and suggestion are required", nil)
		return
	}

	improved, err := h.Svc.Improve(c.Request.Context(),
		strings.ToLower(strings.TrimSpace(req.Provider)),
		req.QuestionText, req.Suggestion)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respond.Error(c, http.StatusBadRequest, "unknown_provider", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "improvement_failed", "could not improve question", nil)
		return
	}
	respond.OK(c, gin.H{"improved": improved})
}
