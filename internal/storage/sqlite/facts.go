package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/parley/internal/core"
)

// FactsRepo stores taught question/answer pairs in insertion order.
type FactsRepo struct {
	db  *sql.DB
	now func() time.Time
}

var _ core.FactRepository = (*FactsRepo)(nil)

func NewFactsRepo(db *sql.DB) *FactsRepo {
	return &FactsRepo{db: db, now: time.Now}
}

func (r *FactsRepo) LoadFacts(ctx context.Context) ([]core.Fact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, question, answer, created_at FROM facts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	var facts []core.Fact
	for rows.Next() {
		var f core.Fact
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (r *FactsRepo) AppendFact(ctx context.Context, fact core.Fact) error {
	created := fact.CreatedAt
	if created.IsZero() {
		created = r.now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO facts (question, answer, created_at) VALUES (?, ?, ?)`,
		fact.Question, fact.Answer, created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fact: %w", err)
	}
	return nil
}
