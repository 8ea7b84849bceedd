// Package repositories implements the domain repository interfaces over
// PostgreSQL.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartlex/lexml/internal/domain/contract"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/pkg/errors"
)

// AnalysisRepo persists contract analyses.  It implements
// contract.Repository.
type AnalysisRepo struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewAnalysisRepo builds an AnalysisRepo over pool.
func NewAnalysisRepo(pool *pgxpool.Pool, log logging.Logger) *AnalysisRepo {
	return &AnalysisRepo{pool: pool, log: log.Named("analysis_repo")}
}

const insertAnalysis = `
INSERT INTO contract_analyses (id, contract_text, classification, risk_score, strength, findings, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Save persists one analysis record.
func (r *AnalysisRepo) Save(ctx context.Context, rec *contract.Record) error {
	_, err := r.pool.Exec(ctx, insertAnalysis,
		rec.ID,
		rec.Text,
		string(rec.Classification),
		rec.RiskScore,
		string(rec.Strength),
		rec.Findings,
		rec.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to store analysis")
	}
	return nil
}

const selectHistory = `
SELECT id, created_at, classification, risk_score, strength, length(contract_text)
FROM contract_analyses
ORDER BY created_at DESC
LIMIT $1`

// RecentHistory returns the limit most recent analyses, newest first.
func (r *AnalysisRepo) RecentHistory(ctx context.Context, limit int) ([]contract.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, selectHistory, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryQueryFailed, "history query failed")
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contract.HistoryEntry, error) {
		var e contract.HistoryEntry
		var classification, strength string
		err := row.Scan(&e.ID, &e.CreatedAt, &classification, &e.RiskScore, &strength, &e.TextLength)
		e.Classification = contract.Label(classification)
		e.Strength = contract.Strength(strength)
		return e, err
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryQueryFailed, "failed to scan history rows")
	}
	return entries, nil
}

var _ contract.Repository = (*AnalysisRepo)(nil)
