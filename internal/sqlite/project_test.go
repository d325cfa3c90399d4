package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/domain/project"
	"github.com/rowanmb/jobsite/internal/repository"
)

func testRow(ownerID, name string) *project.Row {
	rate := 0.0725
	return &project.Row{
		OwnerID:   ownerID,
		Name:      name,
		Status:    "Lead",
		Client:    json.RawMessage(`{"name":"Dana","phone":"","email":""}`),
		Pricing:   json.RawMessage(`[]`),
		Notes:     json.RawMessage(`[]`),
		Tasks:     json.RawMessage(`[]`),
		Photos:    json.RawMessage(`[]`),
		Docs:      json.RawMessage(`[]`),
		TaxRate:   &rate,
		UpdatedAt: time.Now().UTC(),
	}
}

func TestProjectRepository_InsertAssignsID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, testRow("u1", "Kitchen"))
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID)
	require.True(t, project.IsRowID(inserted.ID), "assigned id should be a canonical UUID")

	got, err := repo.Get(ctx, "u1", inserted.ID)
	require.NoError(t, err)
	require.Equal(t, "Kitchen", got.Name)
	require.Equal(t, "u1", got.OwnerID)
}

func TestProjectRepository_RoundTripsColumns(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	row := testRow("u1", "Roof")
	start := "2026-09-01"
	row.StartDate = &start
	row.Pricing = json.RawMessage(`[{"id":"l1","item":"Shingles","qty":30,"unit":42.5,"taxable":true}]`)

	inserted, err := repo.Insert(ctx, row)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1", inserted.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	require.Equal(t, "2026-09-01", *got.StartDate)
	require.Nil(t, got.EndDate)
	require.NotNil(t, got.TaxRate)
	require.InDelta(t, 0.0725, *got.TaxRate, 1e-9)
	require.JSONEq(t, string(row.Pricing), string(got.Pricing))
	require.JSONEq(t, string(row.Client), string(got.Client))
}

func TestProjectRepository_Upsert(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, testRow("u1", "Deck"))
	require.NoError(t, err)

	inserted.Name = "Deck and pergola"
	inserted.Status = "InProgress"
	inserted.Notes = json.RawMessage(`[{"id":"n1","text":"footings poured","createdAt":1700000000000}]`)
	require.NoError(t, repo.Upsert(ctx, inserted))

	got, err := repo.Get(ctx, "u1", inserted.ID)
	require.NoError(t, err)
	require.Equal(t, "Deck and pergola", got.Name)
	require.Equal(t, "InProgress", got.Status)
	require.JSONEq(t, string(inserted.Notes), string(got.Notes))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count))
	require.Equal(t, 1, count, "upsert must not duplicate the row")
}

func TestProjectRepository_Visibility(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	members := NewMemberRepository(db)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, testRow("owner", "Shared job"))
	require.NoError(t, err)

	// A stranger sees nothing.
	_, err = repo.Get(ctx, "stranger", inserted.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	rows, err := repo.ListVisible(ctx, "stranger")
	require.NoError(t, err)
	require.Empty(t, rows)

	// Membership makes it visible.
	require.NoError(t, members.AddMember(ctx, &member.Membership{
		ProjectID: inserted.ID,
		UserID:    "stranger",
		Role:      member.RoleEditor,
		CreatedAt: time.Now().UTC(),
	}))

	got, err := repo.Get(ctx, "stranger", inserted.ID)
	require.NoError(t, err)
	require.Equal(t, "Shared job", got.Name)

	rows, err = repo.ListVisible(ctx, "stranger")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestProjectRepository_ListVisible_NewestFirst(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	older := testRow("u1", "Older")
	older.UpdatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := testRow("u1", "Newer")
	newer.UpdatedAt = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	_, err := repo.Insert(ctx, older)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newer)
	require.NoError(t, err)

	rows, err := repo.ListVisible(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Newer", rows[0].Name)
	require.Equal(t, "Older", rows[1].Name)
}

func TestProjectRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	inserted, err := repo.Insert(ctx, testRow("u1", "Doomed"))
	require.NoError(t, err)

	// Only the owner can delete.
	err = repo.Delete(ctx, "someone-else", inserted.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "u1", inserted.ID))

	_, err = repo.Get(ctx, "u1", inserted.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Delete(ctx, "u1", inserted.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_NullColumns(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	// A legacy-shaped row with nothing in the structured columns.
	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, name) VALUES (?, ?, ?)`,
		"3f2c1a84-9b1d-4e6f-8a2b-5c7d9e0f1a2b", "u1", "Bare")
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1", "3f2c1a84-9b1d-4e6f-8a2b-5c7d9e0f1a2b")
	require.NoError(t, err)
	require.Nil(t, got.Client)
	require.Nil(t, got.Pricing)
	require.Nil(t, got.TaxRate)
	require.Nil(t, got.StartDate)

	// The defaulting mapper still produces a complete project.
	p := project.RowToProject(*got)
	require.Equal(t, project.StatusLead, p.Status)
	require.InDelta(t, project.DefaultTaxRate, p.TaxRate, 1e-9)
}
