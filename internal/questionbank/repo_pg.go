package questionbank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const questionColumns = `id, question_text, bloom_level, difficulty, subject,
	curriculum_standard, correct_option, source_filename, added_at`

// Add inserts a question.
func (r *PGRepo) Add(ctx context.Context, q Question) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO question_bank (`+questionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		q.ID, q.QuestionText, q.BloomLevel, q.Difficulty, q.Subject,
		q.CurriculumStandard, q.CorrectOption, q.SourceFilename, q.AddedAt,
	)
	return err
}

// GetByID returns a question by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Question, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM question_bank WHERE id = $1`, id)
	var q Question
	err := row.Scan(&q.ID, &q.QuestionText, &q.BloomLevel, &q.Difficulty, &q.Subject,
		&q.CurriculumStandard, &q.CorrectOption, &q.SourceFilename, &q.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

// List returns filtered questions, newest first.
func (r *PGRepo) List(ctx context.Context, f Filter) ([]Question, error) {
	query := `SELECT ` + questionColumns + ` FROM question_bank WHERE 1=1`
	args := []any{}
	if f.BloomLevel != "" {
		args = append(args, f.BloomLevel)
		query += fmt.Sprintf(" AND bloom_level = $%d", len(args))
	}
	if f.Subject != "" {
		args = append(args, f.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	query += " ORDER BY added_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.BloomLevel, &q.Difficulty, &q.Subject,
			&q.CurriculumStandard, &q.CorrectOption, &q.SourceFilename, &q.AddedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Delete removes a question.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM question_bank WHERE id = $1`, id)
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

// Stats summarizes the bank with two grouped counts.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByBloom: make(map[string]int), BySubject: make(map[string]int)}

	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM question_bank`).Scan(&stats.Total); err != nil {
		return Stats{}, err
	}

	if err := r.groupCount(ctx, `SELECT bloom_level, COUNT(*) FROM question_bank WHERE bloom_level <> '' GROUP BY bloom_level`, stats.ByBloom); err != nil {
		return Stats{}, err
	}
	if err := r.groupCount(ctx, `SELECT subject, COUNT(*) FROM question_bank WHERE subject <> '' GROUP BY subject`, stats.BySubject); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (r *PGRepo) groupCount(ctx context.Context, query string, into map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}
