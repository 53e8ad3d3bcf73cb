package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/person-researcher/internal/types"
)

// SaveDossier stores a completed dossier. Saving the same ID again replaces it.
func (db *DB) SaveDossier(ctx context.Context, d *types.Dossier) error {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return fmt.Errorf("invalid dossier id %q: %w", d.ID, err)
	}

	content, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dossier: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO dossiers (id, search_query, profile_name, profile_url, failed, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     search_query = $2,
		     profile_name = $3,
		     profile_url = $4,
		     failed = $5,
		     content = $6`,
		id, d.SearchQuery, d.Profile.Name, d.Profile.URL, failedSections(d), content, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save dossier: %w", err)
	}
	return nil
}

// GetDossier retrieves a dossier by ID. It returns nil, nil when no dossier
// matches, including when id is not a UUID.
func (db *DB) GetDossier(ctx context.Context, id string) (*types.Dossier, error) {
	dossierID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var content []byte
	err = db.pool.QueryRow(ctx,
		`SELECT content FROM dossiers WHERE id = $1`, dossierID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dossier: %w", err)
	}

	var d types.Dossier
	if err := json.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("failed to decode dossier %s: %w", id, err)
	}
	return &d, nil
}

// ListDossiers retrieves recent dossiers, newest first
func (db *DB) ListDossiers(ctx context.Context, filters DossierFilters) ([]DossierSummary, error) {
	query := `SELECT id, search_query, profile_name, profile_url, failed, created_at
		FROM dossiers WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Query != "" {
		query += fmt.Sprintf(" AND (search_query ILIKE $%d OR profile_name ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filters.Query+"%")
		argNum++
	}
	if filters.ProfileURL != "" {
		query += fmt.Sprintf(" AND profile_url = $%d", argNum)
		args = append(args, filters.ProfileURL)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.limit())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dossiers: %w", err)
	}
	defer rows.Close()

	summaries := []DossierSummary{}
	for rows.Next() {
		var s DossierSummary
		if err := rows.Scan(&s.ID, &s.SearchQuery, &s.ProfileName, &s.ProfileURL, &s.Failed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dossier: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list dossiers: %w", err)
	}
	return summaries, nil
}

// DeleteDossier deletes a stored dossier
func (db *DB) DeleteDossier(ctx context.Context, id string) error {
	dossierID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("dossier not found: %s", id)
	}
	result, err := db.pool.Exec(ctx, `DELETE FROM dossiers WHERE id = $1`, dossierID)
	if err != nil {
		return fmt.Errorf("failed to delete dossier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("dossier not found: %s", id)
	}
	return nil
}

// failedSections lists the sections recorded in the dossier's errors, sorted.
func failedSections(d *types.Dossier) []string {
	failed := make([]string, 0, len(d.Errors))
	for section := range d.Errors {
		failed = append(failed, section)
	}
	sort.Strings(failed)
	return failed
}
