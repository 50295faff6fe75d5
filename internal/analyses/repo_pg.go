package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"exam-backend/internal/segment"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const runColumns = `id, filename, provider, model, language, custom_prompt, status,
	total_questions, analyzed_questions, good_questions, used_fallback,
	summary, questions, records, report, error_message,
	created_at, started_at, completed_at`

// Create inserts a new run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	summary, questions, records, report, err := marshalRunPayloads(run)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO exam_runs (`+runColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		run.ID, run.Filename, run.Provider, run.Model, run.Language, run.CustomPrompt, run.Status,
		run.TotalQuestions, run.AnalyzedQuestions, run.GoodQuestions, run.UsedFallback,
		summary, questions, records, report, run.ErrorMessage,
		run.CreatedAt, run.StartedAt, run.CompletedAt,
	)
	return err
}

// GetByID returns a run by its ID.
func (r *PGRepo) GetByID(ctx context.Context, runID string) (Run, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM exam_runs WHERE id = $1`, runID)
	return scanRun(row)
}

// Update replaces the mutable fields of an existing run.
func (r *PGRepo) Update(ctx context.Context, run Run) error {
	summary, questions, records, report, err := marshalRunPayloads(run)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE exam_runs SET
			status = $2,
			total_questions = $3,
			analyzed_questions = $4,
			good_questions = $5,
			used_fallback = $6,
			summary = $7,
			questions = $8,
			records = $9,
			report = $10,
			error_message = $11,
			started_at = $12,
			completed_at = $13
		WHERE id = $1`,
		run.ID, run.Status,
		run.TotalQuestions, run.AnalyzedQuestions, run.GoodQuestions, run.UsedFallback,
		summary, questions, records, report, run.ErrorMessage,
		run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns history entries newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, filename, provider, status, total_questions, good_questions, created_at, completed_at
		FROM exam_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Filename, &e.Provider, &e.Status,
			&e.TotalQuestions, &e.GoodQuestions, &e.CreatedAt, &e.CompletedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func marshalRunPayloads(run Run) (summary, questions, records, report []byte, err error) {
	if run.Summary != nil {
		if summary, err = json.Marshal(run.Summary); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if run.Questions != nil {
		if questions, err = json.Marshal(run.Questions); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if run.Records != nil {
		if records, err = json.Marshal(run.Records); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if run.Report != nil {
		if report, err = json.Marshal(run.Report); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return summary, questions, records, report, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var summary, questions, records, report []byte
	err := row.Scan(
		&run.ID, &run.Filename, &run.Provider, &run.Model, &run.Language, &run.CustomPrompt, &run.Status,
		&run.TotalQuestions, &run.AnalyzedQuestions, &run.GoodQuestions, &run.UsedFallback,
		&summary, &questions, &records, &report, &run.ErrorMessage,
		&run.CreatedAt, &run.StartedAt, &run.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}

	if len(summary) > 0 {
		if err := json.Unmarshal(summary, &run.Summary); err != nil {
			return Run{}, err
		}
	}
	if len(questions) > 0 {
		run.Questions = []segment.Unit{}
		if err := json.Unmarshal(questions, &run.Questions); err != nil {
			return Run{}, err
		}
	}
	if len(records) > 0 {
		run.Records = []Record{}
		if err := json.Unmarshal(records, &run.Records); err != nil {
			return Run{}, err
		}
	}
	if len(report) > 0 {
		run.Report = &BloomReport{}
		if err := json.Unmarshal(report, run.Report); err != nil {
			return Run{}, err
		}
	}
	return run, nil
}
