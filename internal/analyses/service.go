package analyses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"exam-backend/internal/extract"
	"exam-backend/internal/llm"
	"exam-backend/internal/rag"
	"exam-backend/internal/segment"
	"exam-backend/internal/shared/config"
	"exam-backend/internal/shared/metrics"
	"exam-backend/internal/shared/telemetry"
)

// Service orchestrates exam analysis runs: extract, segment, analyze each
// question sequentially, then evaluate the cognitive-level distribution.
type Service struct {
	Repo       Repo
	Clients    map[string]llm.Client
	Curricula  *rag.Store
	Thresholds Thresholds

	// DefaultProvider and friends come from configuration and apply when
	// the analyze request leaves them blank.
	DefaultProvider string
	DefaultModel    string
	DefaultLanguage string

	// RequestDelay is the pause between consecutive provider calls. Free
	// tiers meter per minute, so the pipeline stays deliberately slow.
	RequestDelay time.Duration
	MaxAttempts  int

	SegmentMinQuestions int
	SegmentMinTextLen   int

	// Sleep is injectable for tests; nil means real sleeping.
	Sleep SleepFunc
}

// NewService wires a Service from configuration.
func NewService(cfg *config.Config, repo Repo, clients map[string]llm.Client, curricula *rag.Store) *Service {
	return &Service{
		Repo:                repo,
		Clients:             clients,
		Curricula:           curricula,
		Thresholds:          DefaultThresholds,
		DefaultProvider:     cfg.DefaultProvider,
		DefaultModel:        cfg.DefaultModel,
		DefaultLanguage:     cfg.DefaultLanguage,
		RequestDelay:        cfg.RequestDelay,
		MaxAttempts:         cfg.MaxAttempts,
		SegmentMinQuestions: cfg.SegmentMinQuestions,
		SegmentMinTextLen:   cfg.SegmentMinTextLen,
	}
}

// Start extracts text from an uploaded document, creates a queued run, and
// launches processing in the background. Extraction problems are reported
// immediately as a hard stop; nothing is persisted for them.
func (s *Service) Start(ctx context.Context, filename string, data []byte, mimeType string, cfg RunConfig) (Run, error) {
	text, err := extract.FromBytes(ctx, data, mimeType, filename)
	if err != nil {
		return Run{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Run{}, ErrEmptyDocument
	}

	provider := cfg.Provider
	if provider == "" {
		provider = s.DefaultProvider
	}
	client, ok := s.Clients[provider]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrNoProvider, provider)
	}

	model := cfg.Model
	if model == "" {
		model = s.DefaultModel
	}
	lang := cfg.Language
	if lang == "" {
		lang = s.DefaultLanguage
	}

	if cfg.Curriculum != "" && (s.Curricula == nil || !s.Curricula.Has(cfg.Curriculum)) {
		return Run{}, fmt.Errorf("%w: %s", ErrNoCurriculum, cfg.Curriculum)
	}

	run := Run{
		ID:           uuid.NewString(),
		Filename:     filename,
		Provider:     provider,
		Model:        model,
		Language:     lang,
		CustomPrompt: cfg.CustomPrompt,
		Status:       StatusQueued,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, run); err != nil {
		return Run{}, err
	}

	go s.process(context.Background(), run, client, text, cfg.Curriculum)
	return run, nil
}

// Get returns a run by ID.
func (s *Service) Get(ctx context.Context, runID string) (Run, error) {
	return s.Repo.GetByID(ctx, runID)
}

// History lists past runs, newest first.
func (s *Service) History(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) process(ctx context.Context, run Run, client llm.Client, text string, curriculum string) {
	defer func() {
		if r := recover(); r != nil {
			s.failRun(ctx, run, fmt.Errorf("panic: %v", r))
		}
	}()

	startedAt := time.Now().UTC()
	run.Status = StatusProcessing
	run.StartedAt = &startedAt
	if err := s.Repo.Update(ctx, run); err != nil {
		telemetry.Error("run.update", map[string]any{"run_id": run.ID, "error": err.Error()})
		return
	}
	metrics.IncRunStarted()
	telemetry.Info("run.status", map[string]any{
		"run_id":   run.ID,
		"provider": run.Provider,
		"status":   StatusProcessing,
	})

	segmenter := &segment.Segmenter{
		Fallback:     client,
		MinQuestions: s.SegmentMinQuestions,
		MinTextLen:   s.SegmentMinTextLen,
	}
	questions, usedFallback := segmenter.Questions(ctx, text)
	if usedFallback {
		metrics.IncFallbackSegmentation()
	}
	if len(questions) == 0 {
		s.failRun(ctx, run, fmt.Errorf("%w: number questions like \"1.\", \"(1)\" or \"ข้อ 1\" at line starts", ErrNoQuestions))
		return
	}

	run.UsedFallback = usedFallback
	run.Questions = questions
	run.TotalQuestions = len(questions)
	run.Records = make([]Record, 0, len(questions))
	if err := s.Repo.Update(ctx, run); err != nil {
		telemetry.Error("run.update", map[string]any{"run_id": run.ID, "error": err.Error()})
	}

	retry := newRetrier(client, s.MaxAttempts, s.Sleep)
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepWith
	}

	quotaFailures := 0
	for i, q := range questions {
		// Cancellation is cooperative and only observed here, never
		// mid-request.
		if ctx.Err() != nil {
			s.failRun(ctx, run, ctx.Err())
			return
		}

		outcome, err := s.analyzeQuestion(ctx, retry, run, q, i+1, curriculum)
		if err != nil {
			s.failRun(ctx, run, err)
			return
		}
		if outcome.failed {
			metrics.IncQuestionFailed()
			if outcome.quotaFailed {
				quotaFailures++
				metrics.IncQuotaExceeded()
			}
		} else {
			metrics.IncQuestionAnalyzed()
		}

		run.Records = append(run.Records, outcome.record)
		run.AnalyzedQuestions = i + 1
		if outcome.record.IsGoodQuestion {
			run.GoodQuestions++
		}
		if err := s.Repo.Update(ctx, run); err != nil {
			telemetry.Error("run.update", map[string]any{"run_id": run.ID, "error": err.Error()})
		}

		if i < len(questions)-1 {
			if err := sleep(ctx, s.RequestDelay); err != nil {
				s.failRun(ctx, run, err)
				return
			}
		}
	}

	report := EvaluateBloom(run.Records, s.thresholds())
	completedAt := time.Now().UTC()
	run.Report = &report
	run.Status = StatusCompleted
	run.CompletedAt = &completedAt
	run.Summary = map[string]any{
		"total_questions":  run.TotalQuestions,
		"good_questions":   run.GoodQuestions,
		"quota_failures":   quotaFailures,
		"used_fallback":    run.UsedFallback,
		"bloom_pass":       report.Pass,
		"bloom_percent":    report.Percentages,
		"provider":         run.Provider,
		"model":            run.Model,
		"duration_seconds": completedAt.Sub(startedAt).Seconds(),
	}
	if err := s.Repo.Update(ctx, run); err != nil {
		telemetry.Error("run.update", map[string]any{"run_id": run.ID, "error": err.Error()})
		return
	}

	metrics.IncRunCompleted()
	metrics.ObserveRunDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	telemetry.Info("run.status", map[string]any{
		"run_id":          run.ID,
		"provider":        run.Provider,
		"status":          StatusCompleted,
		"total_questions": run.TotalQuestions,
		"good_questions":  run.GoodQuestions,
		"bloom_pass":      report.Pass,
	})
}

func (s *Service) analyzeQuestion(ctx context.Context, retry *retrier, run Run, q segment.Unit, id int, curriculum string) (analyzeOutcome, error) {
	opts := llm.PromptOptions{
		CustomInstruction: run.CustomPrompt,
		Language:          run.Language,
	}
	if s.Curricula != nil {
		if sections := s.Curricula.SearchIn(curriculum, q.Text, rag.DefaultTopK); len(sections) > 0 {
			opts.CurriculumContext = strings.Join(sections, "\n...\n")
		}
	}
	system, user := llm.BuildAnalysisPrompt(q.Text, id, opts)

	return retry.analyze(ctx, llm.Request{
		System:       system,
		User:         user,
		ForceJSON:    true,
		RecordSchema: run.CustomPrompt == "",
		Temperature:  0.2,
		MaxTokens:    4096,
	}, run.Language)
}

func (s *Service) thresholds() Thresholds {
	if s.Thresholds == (Thresholds{}) {
		return DefaultThresholds
	}
	return s.Thresholds
}

func (s *Service) failRun(ctx context.Context, run Run, cause error) {
	completedAt := time.Now().UTC()
	msg := cause.Error()
	run.Status = StatusFailed
	run.ErrorMessage = &msg
	run.CompletedAt = &completedAt
	if err := s.Repo.Update(ctx, run); err != nil {
		telemetry.Error("run.update", map[string]any{"run_id": run.ID, "error": err.Error()})
	}
	metrics.IncRunFailed()
	telemetry.Info("run.status", map[string]any{
		"run_id":   run.ID,
		"provider": run.Provider,
		"status":   StatusFailed,
		"error":    msg,
	})
}
