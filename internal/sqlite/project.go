package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/rowanmb/jobsite/internal/domain/project"
	"github.com/rowanmb/jobsite/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, owner_id, name, address, city, state, zip, status,
	start_date, end_date, client, pricing, notes, tasks, photos, docs,
	tax_rate, updated_at
`

// Insert stores a new row. A row arriving without an id gets a fresh UUID,
// which is the storage identity from then on.
func (r *ProjectRepository) Insert(ctx context.Context, row *project.Row) (*project.Row, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, writeArgs(row)...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	return row, nil
}

// Upsert writes the whole row by id. Last write wins; there is no version
// check.
func (r *ProjectRepository) Upsert(ctx context.Context, row *project.Row) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			zip = excluded.zip,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			client = excluded.client,
			pricing = excluded.pricing,
			notes = excluded.notes,
			tasks = excluded.tasks,
			photos = excluded.photos,
			docs = excluded.docs,
			tax_rate = excluded.tax_rate,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, writeArgs(row)...); err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}

	return nil
}

// Get retrieves a row the principal owns or is a member of
func (r *ProjectRepository) Get(ctx context.Context, principalID, id string) (*project.Row, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.id = ? AND (p.owner_id = ? OR EXISTS (
			SELECT 1 FROM project_members m
			WHERE m.project_id = p.id AND m.user_id = ?
		))
	`

	row, err := scanProjectRow(r.db.QueryRowContext(ctx, query, id, principalID, principalID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return row, nil
}

// ListVisible returns every row the principal owns or is a member of,
// most recently updated first
func (r *ProjectRepository) ListVisible(ctx context.Context, principalID string) ([]project.Row, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.owner_id = ? OR EXISTS (
			SELECT 1 FROM project_members m
			WHERE m.project_id = p.id AND m.user_id = ?
		)
		ORDER BY p.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, principalID, principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []project.Row
	for rows.Next() {
		row, err := scanProjectRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		out = append(out, *row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return out, nil
}

// Delete removes a row the principal owns
func (r *ProjectRepository) Delete(ctx context.Context, principalID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, principalID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func writeArgs(row *project.Row) []any {
	return []any{
		row.ID,
		row.OwnerID,
		row.Name,
		row.Address,
		row.City,
		row.State,
		row.Zip,
		row.Status,
		row.StartDate,
		row.EndDate,
		jsonArg(row.Client),
		jsonArg(row.Pricing),
		jsonArg(row.Notes),
		jsonArg(row.Tasks),
		jsonArg(row.Photos),
		jsonArg(row.Docs),
		row.TaxRate,
		row.UpdatedAt,
	}
}

func jsonArg(data json.RawMessage) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProjectRow(s rowScanner) (*project.Row, error) {
	var (
		row     project.Row
		client  sql.NullString
		pricing sql.NullString
		notes   sql.NullString
		tasks   sql.NullString
		photos  sql.NullString
		docs    sql.NullString
		taxRate sql.NullFloat64
	)

	err := s.Scan(
		&row.ID,
		&row.OwnerID,
		&row.Name,
		&row.Address,
		&row.City,
		&row.State,
		&row.Zip,
		&row.Status,
		&row.StartDate,
		&row.EndDate,
		&client,
		&pricing,
		&notes,
		&tasks,
		&photos,
		&docs,
		&taxRate,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	row.Client = rawColumn(client)
	row.Pricing = rawColumn(pricing)
	row.Notes = rawColumn(notes)
	row.Tasks = rawColumn(tasks)
	row.Photos = rawColumn(photos)
	row.Docs = rawColumn(docs)
	if taxRate.Valid {
		row.TaxRate = &taxRate.Float64
	}

	return &row, nil
}

func rawColumn(col sql.NullString) json.RawMessage {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.RawMessage(col.String)
}
