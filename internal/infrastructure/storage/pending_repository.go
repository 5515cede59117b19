package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var openStatuses = []string{string(domain.StatusPending), string(domain.StatusBulkPending)}

// PendingRepository persists drafts in the pending_posts table.
type PendingRepository struct {
	db *sql.DB
}

var _ ports.PendingRepository = (*PendingRepository)(nil)

// NewPendingRepository wires a sql.DB implementation.
func NewPendingRepository(db *sql.DB) *PendingRepository {
	return &PendingRepository{db: db}
}

// Insert stores a new draft and returns its generated id. The partial
// unique index on open drafts makes a concurrent double-insert fail here
// instead of slipping through the pre-check.
func (r *PendingRepository) Insert(ctx context.Context, post domain.PendingPost) (string, error) {
	id := post.ID
	if id == "" {
		id = uuid.NewString()
	}

	query, args, err := psql.Insert("pending_posts").
		Columns("id", "title", "url", "post_text", "image_url", "region", "status", "quality_score").
		Values(id, post.Title, post.URL, post.PostText, post.ImageURL, string(post.Region), string(post.Status), post.QualityScore).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert pending post: %w", err)
	}

	return id, nil
}

// Get loads one draft by id.
func (r *PendingRepository) Get(ctx context.Context, id string) (domain.PendingPost, error) {
	query, args, err := psql.Select("id", "title", "url", "post_text", "image_url", "region", "status", "quality_score", "created_at").
		From("pending_posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.PendingPost{}, fmt.Errorf("build select: %w", err)
	}

	var post domain.PendingPost
	var region, status string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&post.ID, &post.Title, &post.URL, &post.PostText, &post.ImageURL,
		&region, &status, &post.QualityScore, &post.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.PendingPost{}, fmt.Errorf("draft %s not found", id)
	}
	if err != nil {
		return domain.PendingPost{}, fmt.Errorf("load pending post: %w", err)
	}

	post.Region = domain.Region(region)
	post.Status = domain.DraftStatus(status)
	return post, nil
}

// UpdateStatus moves a draft to the given status.
func (r *PendingRepository) UpdateStatus(ctx context.Context, id string, status domain.DraftStatus) error {
	query, args, err := psql.Update("pending_posts").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("draft %s not found", id)
	}

	return nil
}

// HasOpenDraft reports a non-terminal draft for the URL.
func (r *PendingRepository) HasOpenDraft(ctx context.Context, url string) (bool, error) {
	query, args, err := psql.Select("1").
		From("pending_posts").
		Where(sq.Eq{"url": url}).
		Where(sq.Eq{"status": openStatuses}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check open draft: %w", err)
	}
	return true, nil
}

// SelectApproved returns the freshest approved and bulk-approved drafts,
// region matches first, for use as style exemplars.
func (r *PendingRepository) SelectApproved(ctx context.Context, region domain.Region, limit int) ([]domain.PendingPost, error) {
	query, args, err := psql.Select("id", "title", "url", "post_text", "image_url", "region", "status", "quality_score", "created_at").
		From("pending_posts").
		Where(sq.Eq{"status": []string{string(domain.StatusApproved), string(domain.StatusBulkApproved)}}).
		OrderByClause("(region = ?) DESC, created_at DESC", string(region)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select approved: %w", err)
	}
	defer rows.Close()

	var posts []domain.PendingPost
	for rows.Next() {
		var post domain.PendingPost
		var reg, status string
		if err := rows.Scan(
			&post.ID, &post.Title, &post.URL, &post.PostText, &post.ImageURL,
			&reg, &status, &post.QualityScore, &post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan approved: %w", err)
		}
		post.Region = domain.Region(reg)
		post.Status = domain.DraftStatus(status)
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return posts, nil
}

// ExpireOlderThan sweeps stale pending drafts into expired and returns the
// number of rows moved. Bulk drafts are exempt; their review has no TTL.
func (r *PendingRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query, args, err := psql.Update("pending_posts").
		Set("status", string(domain.StatusExpired)).
		Where(sq.Eq{"status": string(domain.StatusPending)}).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire drafts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}
