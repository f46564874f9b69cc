package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"qnabot/internal/domain"
)

// KnowledgeRepo implements repository.KnowledgeRepository
type KnowledgeRepo struct {
	db *sql.DB
}

// NewKnowledgeRepo creates a new knowledge base repository
func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// GetPublicCategories returns visible categories in display order
func (r *KnowledgeRepo) GetPublicCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, hidden, ordering
		FROM categories
		WHERE hidden = FALSE
		ORDER BY ordering, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Hidden, &c.Ordering); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// GetPublicQuestions returns visible questions of a visible category in display order
func (r *KnowledgeRepo) GetPublicQuestions(ctx context.Context, category string) ([]domain.Question, error) {
	query := `
		SELECT q.id, q.category_id, q.question, q.answer, q.attachments, q.hidden, q.ordering
		FROM questions q
		JOIN categories c ON q.category_id = c.id
		WHERE c.name = $1 AND c.hidden = FALSE AND q.hidden = FALSE
		ORDER BY q.ordering, q.id
	`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	return questions, rows.Err()
}

// GetQuestion returns a visible question by its exact text, or nil
func (r *KnowledgeRepo) GetQuestion(ctx context.Context, category, question string) (*domain.Question, error) {
	query := `
		SELECT q.id, q.category_id, q.question, q.answer, q.attachments, q.hidden, q.ordering
		FROM questions q
		JOIN categories c ON q.category_id = c.id
		WHERE c.name = $1 AND q.question = $2 AND c.hidden = FALSE AND q.hidden = FALSE
		ORDER BY q.ordering, q.id
		LIMIT 1
	`
	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, category, question))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(s scanner) (*domain.Question, error) {
	var q domain.Question
	var attachments []byte
	if err := s.Scan(&q.ID, &q.CategoryID, &q.Question, &q.Answer, &attachments, &q.Hidden, &q.Ordering); err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &q.Attachments); err != nil {
			return nil, fmt.Errorf("question %d attachments: %w", q.ID, err)
		}
	}
	return &q, nil
}
