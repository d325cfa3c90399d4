package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rowanmb/jobsite/internal/domain/project"
	"github.com/rowanmb/jobsite/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository implements project.Repository for PostgreSQL
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Insert stores a new row, assigning a fresh UUID when the row has no id
func (r *ProjectRepository) Insert(ctx context.Context, row *project.Row) (*project.Row, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	model := toModel(row)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	return row, nil
}

// Upsert writes the whole row by id, last write wins
func (r *ProjectRepository) Upsert(ctx context.Context, row *project.Row) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	model := toModel(row)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}

	return nil
}

const visibleCondition = `owner_id = ? OR EXISTS (
	SELECT 1 FROM project_members m
	WHERE m.project_id = projects.id AND m.user_id = ?
)`

// Get retrieves a row the principal owns or is a member of
func (r *ProjectRepository) Get(ctx context.Context, principalID, id string) (*project.Row, error) {
	var model projectModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where(visibleCondition, principalID, principalID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return fromModel(&model), nil
}

// ListVisible returns every row the principal owns or is a member of
func (r *ProjectRepository) ListVisible(ctx context.Context, principalID string) ([]project.Row, error) {
	var models []projectModel
	err := r.db.WithContext(ctx).
		Where(visibleCondition, principalID, principalID).
		Order("updated_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	rows := make([]project.Row, 0, len(models))
	for i := range models {
		rows = append(rows, *fromModel(&models[i]))
	}
	return rows, nil
}

// Delete removes a row the principal owns
func (r *ProjectRepository) Delete(ctx context.Context, principalID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, principalID).
		Delete(&projectModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toModel(row *project.Row) *projectModel {
	return &projectModel{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Address:   row.Address,
		City:      row.City,
		State:     row.State,
		Zip:       row.Zip,
		Status:    row.Status,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Client:    jsonColumn(row.Client),
		Pricing:   jsonColumn(row.Pricing),
		Notes:     jsonColumn(row.Notes),
		Tasks:     jsonColumn(row.Tasks),
		Photos:    jsonColumn(row.Photos),
		Docs:      jsonColumn(row.Docs),
		TaxRate:   row.TaxRate,
		UpdatedAt: row.UpdatedAt,
	}
}

func fromModel(m *projectModel) *project.Row {
	return &project.Row{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Address:   m.Address,
		City:      m.City,
		State:     m.State,
		Zip:       m.Zip,
		Status:    m.Status,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Client:    rawColumn(m.Client),
		Pricing:   rawColumn(m.Pricing),
		Notes:     rawColumn(m.Notes),
		Tasks:     rawColumn(m.Tasks),
		Photos:    rawColumn(m.Photos),
		Docs:      rawColumn(m.Docs),
		TaxRate:   m.TaxRate,
		UpdatedAt: m.UpdatedAt,
	}
}

func jsonColumn(data json.RawMessage) *string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	return &s
}

func rawColumn(col *string) json.RawMessage {
	if col == nil || *col == "" {
		return nil
	}
	return json.RawMessage(*col)
}
