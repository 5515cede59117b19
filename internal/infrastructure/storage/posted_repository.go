package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// PostedRepository is the append-only publication log in posted_news.
type PostedRepository struct {
	db *sql.DB
}

var _ ports.PostedRepository = (*PostedRepository)(nil)

// NewPostedRepository wires a sql.DB implementation.
func NewPostedRepository(db *sql.DB) *PostedRepository {
	return &PostedRepository{db: db}
}

// Exists reports whether the dedup key has already been published.
func (r *PostedRepository) Exists(ctx context.Context, urlText string) (bool, error) {
	query, args, err := psql.Select("1").
		From("posted_news").
		Where(sq.Eq{"url_text": urlText}).
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
		return false, fmt.Errorf("check posted: %w", err)
	}
	return true, nil
}

// Insert appends one publication record. The unique key makes a repeat
// publication fail loudly.
func (r *PostedRepository) Insert(ctx context.Context, record domain.PostedNews) error {
	query, args, err := psql.Insert("posted_news").
		Columns("url_text", "news_type", "shareability_score", "source_type", "title").
		Values(record.URLText, string(record.NewsType), record.ShareabilityScore, record.SourceType, record.Title).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert posted news: %w", err)
	}
	return nil
}

// RecentTitles returns the latest published titles for the semantic judge.
func (r *PostedRepository) RecentTitles(ctx context.Context, limit int) ([]string, error) {
	query, args, err := psql.Select("title").
		From("posted_news").
		Where(sq.NotEq{"title": ""}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select recent titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return titles, nil
}
