package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// DecisionStore implements domain.DecisionStore using PostgreSQL.
type DecisionStore struct {
	pool *pgxpool.Pool
}

// NewDecisionStore creates a DecisionStore backed by the given connection
// pool.
func NewDecisionStore(pool *pgxpool.Pool) *DecisionStore {
	return &DecisionStore{pool: pool}
}

const decisionSelectCols = `id, symbol, direction, ask_price, bid_price,
	quantity, total_cost, raw_spread, profit, detected_at`

// Insert records a detected opportunity.
func (s *DecisionStore) Insert(ctx context.Context, opp domain.Opportunity) error {
	const query = `
		INSERT INTO decision_history (
			id, symbol, direction, ask_price, bid_price,
			quantity, total_cost, raw_spread, profit, detected_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)`

	_, err := s.pool.Exec(ctx, query,
		opp.ID, string(opp.Symbol), string(opp.Instruction.Direction),
		opp.Instruction.AskPrice, opp.Instruction.BidPrice,
		opp.Instruction.Quantity, opp.Instruction.TotalCost,
		opp.RawSpread, opp.Profit, opp.DetectedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert decision %s: %w", opp.ID, err)
	}
	return nil
}

// MarkSettled sets the settled flag and settlement timestamp for a recorded
// opportunity.
func (s *DecisionStore) MarkSettled(ctx context.Context, id string) error {
	const query = `
		UPDATE decision_history SET
			settled    = TRUE,
			settled_at = NOW()
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: mark decision settled %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListRecent returns the most recent opportunities ordered by detection time.
func (s *DecisionStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	query := `SELECT ` + decisionSelectCols + ` FROM decision_history ORDER BY detected_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent decisions: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var opp domain.Opportunity
		var symbol, direction string
		if err := rows.Scan(
			&opp.ID, &symbol, &direction,
			&opp.Instruction.AskPrice, &opp.Instruction.BidPrice,
			&opp.Instruction.Quantity, &opp.Instruction.TotalCost,
			&opp.RawSpread, &opp.Profit, &opp.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan decision: %w", err)
		}
		opp.Symbol = domain.Symbol(symbol)
		opp.Instruction.Symbol = opp.Symbol
		opp.Instruction.Direction = domain.Direction(direction)
		opps = append(opps, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate decisions: %w", err)
	}
	return opps, nil
}

// Compile-time interface check.
var _ domain.DecisionStore = (*DecisionStore)(nil)
