package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/person-researcher/internal/fetch"
)

// GetCrawledPageByURL retrieves a cached page by URL
func (db *DB) GetCrawledPageByURL(ctx context.Context, pageURL string) (*CrawledPage, error) {
	var p CrawledPage
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, raw_html, title, parsed_text, content_hash, http_status, rendered,
		        fetched_at, expires_at, last_accessed_at, created_at, updated_at
		 FROM crawled_pages WHERE url = $1`,
		pageURL,
	).Scan(&p.ID, &p.URL, &p.RawHTML, &p.Title, &p.ParsedText, &p.ContentHash, &p.HTTPStatus, &p.Rendered,
		&p.FetchedAt, &p.ExpiresAt, &p.LastAccessedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crawled page: %w", err)
	}
	return &p, nil
}

// GetFreshPage returns the cached page for pageURL if it was fetched within
// maxAge and has not expired, or nil.
func (db *DB) GetFreshPage(ctx context.Context, pageURL string, maxAge time.Duration) (*fetch.Page, error) {
	page, err := db.GetCrawledPageByURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if page == nil || !page.IsFresh(maxAge) || page.IsExpired() {
		return nil, nil
	}

	// Update last accessed time
	_ = db.TouchCrawledPage(ctx, page.ID)

	return page.toFetchPage(), nil
}

// UpsertPage inserts or updates a cached page
func (db *DB) UpsertPage(ctx context.Context, page *fetch.Page) error {
	var contentHash *string
	if page.HTML != "" {
		hash := HashContent(page.HTML)
		contentHash = &hash
	}

	var httpStatus *int
	if page.StatusCode != 0 {
		status := page.StatusCode
		httpStatus = &status
	}

	expiresAt := time.Now().Add(DefaultPageCacheTTL)

	err := db.pool.QueryRow(ctx,
		`INSERT INTO crawled_pages (url, raw_html, title, parsed_text, content_hash, http_status, rendered,
		                            fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)
		 ON CONFLICT (url) DO UPDATE SET
		     raw_html = $2,
		     title = $3,
		     parsed_text = $4,
		     content_hash = $5,
		     http_status = $6,
		     rendered = $7,
		     fetched_at = NOW(),
		     expires_at = $8,
		     updated_at = NOW()
		 RETURNING fetched_at`,
		page.URL, nullIfEmpty(page.HTML), nullIfEmpty(page.Title), nullIfEmpty(page.Text), contentHash, httpStatus,
		page.Rendered, expiresAt,
	).Scan(&page.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert crawled page: %w", err)
	}
	return nil
}

// TouchCrawledPage updates the last accessed time of a cached page
func (db *DB) TouchCrawledPage(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE crawled_pages SET last_accessed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch crawled page: %w", err)
	}
	return nil
}

// DeleteExpiredPages removes cached pages past their expiry and returns how many were removed
func (db *DB) DeleteExpiredPages(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM crawled_pages WHERE expires_at IS NOT NULL AND expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pages: %w", err)
	}
	return result.RowsAffected(), nil
}

func (p *CrawledPage) toFetchPage() *fetch.Page {
	page := &fetch.Page{
		URL:       p.URL,
		Rendered:  p.Rendered,
		FetchedAt: p.FetchedAt,
	}
	if p.RawHTML != nil {
		page.HTML = *p.RawHTML
	}
	if p.Title != nil {
		page.Title = *p.Title
	}
	if p.ParsedText != nil {
		page.Text = *p.ParsedText
	}
	if p.HTTPStatus != nil {
		page.StatusCode = *p.HTTPStatus
	}
	return page
}

var _ fetch.PageStore = (*DB)(nil)
