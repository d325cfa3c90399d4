// Package postgres provides gorm-backed implementations of the repository
// interfaces for hosted deployments. Column names on the projects table
// match the SQLite schema and the row contract exactly.
package postgres

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a PostgreSQL connection and migrates the schema.
func New(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&projectModel{}, &profileModel{}, &memberModel{}, &apiKeyModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

type projectModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	OwnerID   string    `gorm:"column:owner_id;not null;index"`
	Name      string    `gorm:"column:name;not null;default:''"`
	Address   string    `gorm:"column:address;not null;default:''"`
	City      string    `gorm:"column:city;not null;default:''"`
	State     string    `gorm:"column:state;not null;default:''"`
	Zip       string    `gorm:"column:zip;not null;default:''"`
	Status    string    `gorm:"column:status;not null;default:'Lead'"`
	StartDate *string   `gorm:"column:start_date"`
	EndDate   *string   `gorm:"column:end_date"`
	Client    *string   `gorm:"column:client;type:jsonb"`
	Pricing   *string   `gorm:"column:pricing;type:jsonb"`
	Notes     *string   `gorm:"column:notes;type:jsonb"`
	Tasks     *string   `gorm:"column:tasks;type:jsonb"`
	Photos    *string   `gorm:"column:photos;type:jsonb"`
	Docs      *string   `gorm:"column:docs;type:jsonb"`
	TaxRate   *float64  `gorm:"column:tax_rate"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;index"`
}

func (projectModel) TableName() string { return "projects" }

type profileModel struct {
	ID    string `gorm:"column:id;primaryKey"`
	Email string `gorm:"column:email;not null;uniqueIndex"`
}

func (profileModel) TableName() string { return "profiles" }

type memberModel struct {
	ProjectID string    `gorm:"column:project_id;primaryKey"`
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Role      string    `gorm:"column:role;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (memberModel) TableName() string { return "project_members" }

type apiKeyModel struct {
	KeyHash     string     `gorm:"column:key_hash;primaryKey"`
	PrincipalID string     `gorm:"column:principal_id;not null;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	LastUsed    *time.Time `gorm:"column:last_used"`
	Description string     `gorm:"column:description"`
}

func (apiKeyModel) TableName() string { return "api_keys" }
