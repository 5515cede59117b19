package storage

import (
	"context"
	"database/sql"
	"fmt"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// FeedbackRepository stores negative constraints and decision metrics.
type FeedbackRepository struct {
	db *sql.DB
}

var _ ports.FeedbackRepository = (*FeedbackRepository)(nil)

// NewFeedbackRepository wires a sql.DB implementation.
func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// InsertConstraint appends one constraint row.
func (r *FeedbackRepository) InsertConstraint(ctx context.Context, constraint domain.NegativeConstraint) error {
	query, args, err := psql.Insert("negative_constraints").
		Columns("feedback", "post_content").
		Values(constraint.Feedback, constraint.PostContent).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert constraint: %w", err)
	}
	return nil
}

// ListConstraints returns every stored constraint, oldest first.
func (r *FeedbackRepository) ListConstraints(ctx context.Context) ([]domain.NegativeConstraint, error) {
	query, args, err := psql.Select("id", "feedback", "post_content", "created_at").
		From("negative_constraints").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.selectConstraints(ctx, query, args)
}

// RecentRejected returns the freshest constraints for anti-examples and
// semantic dedup context.
func (r *FeedbackRepository) RecentRejected(ctx context.Context, limit int) ([]domain.NegativeConstraint, error) {
	query, args, err := psql.Select("id", "feedback", "post_content", "created_at").
		From("negative_constraints").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.selectConstraints(ctx, query, args)
}

func (r *FeedbackRepository) selectConstraints(ctx context.Context, query string, args []interface{}) ([]domain.NegativeConstraint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select constraints: %w", err)
	}
	defer rows.Close()

	var constraints []domain.NegativeConstraint
	for rows.Next() {
		var constraint domain.NegativeConstraint
		if err := rows.Scan(&constraint.ID, &constraint.Feedback, &constraint.PostContent, &constraint.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan constraint: %w", err)
		}
		constraints = append(constraints, constraint)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return constraints, nil
}

// InsertMetric appends one decision metric row.
func (r *FeedbackRepository) InsertMetric(ctx context.Context, metric domain.PostMetric) error {
	query, args, err := psql.Insert("post_metrics").
		Columns("pending_id", "region", "decision", "reject_reason", "user_rating",
			"char_count", "has_numbers", "has_vague_language", "source_url").
		Values(metric.PendingID, string(metric.Region), string(metric.Decision), metric.RejectReason, metric.UserRating,
			metric.CharCount, metric.HasNumbers, metric.HasVagueLanguage, metric.SourceURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert metric: %w", err)
	}
	return nil
}
