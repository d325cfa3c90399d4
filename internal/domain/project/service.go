package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/rowanmb/jobsite/internal/repository"
)

// Service handles project operations. Mutations apply to the in-memory
// store synchronously and reach the repository through the autosave
// scheduler; creates and deletes write through immediately.
type Service struct {
	repo   Repository
	store  Store
	saves  Scheduler
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new project service. A nil clock falls back to the
// wall clock.
func NewService(repo Repository, st Store, saves Scheduler, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, store: st, saves: saves, clock: clk, logger: logger}
}

// Summary is a lightweight representation for listing.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Status     Status    `json:"status"`
	ClientName string    `json:"client_name,omitempty"`
	GrandTotal float64   `json:"grand_total"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// List reads every row visible to the principal, loads the mapped projects
// into the store, and returns summaries newest-first (repository order).
func (s *Service) List(ctx context.Context, ownerID string) ([]Summary, error) {
	rows, err := s.repo.ListVisible(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects := make([]*Project, 0, len(rows))
	summaries := make([]Summary, 0, len(rows))
	for i := range rows {
		p := RowToProject(rows[i])
		projects = append(projects, p)
		summaries = append(summaries, Summary{
			ID:         p.ID,
			Name:       p.Name,
			Address:    p.Address,
			City:       p.City,
			Status:     p.Status,
			ClientName: p.Client.Name,
			GrandTotal: ComputeTotals(p.Pricing, p.TaxRate).GrandTotal,
			UpdatedAt:  rows[i].UpdatedAt,
		})
	}
	s.store.Replace(projects)
	return summaries, nil
}

// Create inserts a defaulted draft. The draft row carries no id, so the
// persistence layer assigns the storage identity.
func (s *Service) Create(ctx context.Context, ownerID, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Project"
	}

	draft := New(name)
	row := ProjectToRow(draft, ownerID, s.clock.Now())
	inserted, err := s.repo.Insert(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	p := RowToProject(*inserted)
	s.store.Put(p)
	s.logger.Info("project created", "project_id", p.ID, "owner_id", ownerID)
	out := p.Clone()
	return &out, nil
}

// Get returns the loaded project, falling back to the repository when the
// store has not seen it yet.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Project, error) {
	if p, ok := s.store.Get(id); ok {
		return &p, nil
	}

	row, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	p := RowToProject(*row)
	s.store.Put(p)
	out := p.Clone()
	return &out, nil
}

// Delete removes the whole row. A pending autosave write for the project is
// not cancelled and may still fire afterwards; the repository's
// last-write-wins semantics govern the outcome.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	storageID := id
	if p, ok := s.store.Get(id); ok && p.RowID != "" {
		storageID = p.RowID
	}
	if err := s.repo.Delete(ctx, ownerID, storageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.store.Remove(id)
	return nil
}

// Mutate applies mutator to the loaded project synchronously and schedules
// a coalesced persistence write of the resulting snapshot.
func (s *Service) Mutate(ctx context.Context, ownerID, id string, mutator func(*Project)) (*Project, error) {
	snapshot, ok := s.store.Apply(id, mutator)
	if !ok {
		// Not loaded yet; pull it in and retry once.
		if _, err := s.Get(ctx, ownerID, id); err != nil {
			return nil, err
		}
		snapshot, ok = s.store.Apply(id, mutator)
		if !ok {
			return nil, ErrProjectNotFound
		}
	}
	if s.saves != nil {
		s.saves.Schedule(ownerID, snapshot)
	}
	return &snapshot, nil
}

// InfoUpdate carries optional field edits for the job info block.
type InfoUpdate struct {
	Name      *string
	Address   *string
	City      *string
	State     *string
	Zip       *string
	StartDate *string
	EndDate   *string
}

// UpdateInfo edits the project's address and scheduling fields.
func (s *Service) UpdateInfo(ctx context.Context, ownerID, id string, upd InfoUpdate) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		setIfPresent(&p.Name, upd.Name)
		setIfPresent(&p.Address, upd.Address)
		setIfPresent(&p.City, upd.City)
		setIfPresent(&p.State, upd.State)
		setIfPresent(&p.Zip, upd.Zip)
		setIfPresent(&p.StartDate, upd.StartDate)
		setIfPresent(&p.EndDate, upd.EndDate)
	})
}

// ClientUpdate carries optional edits to the client contact block.
type ClientUpdate struct {
	Name  *string
	Phone *string
	Email *string
}

// UpdateClient edits the client contact fields.
func (s *Service) UpdateClient(ctx context.Context, ownerID, id string, upd ClientUpdate) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		setIfPresent(&p.Client.Name, upd.Name)
		setIfPresent(&p.Client.Phone, upd.Phone)
		setIfPresent(&p.Client.Email, upd.Email)
	})
}

// SetStatus moves the project to the given status.
func (s *Service) SetStatus(ctx context.Context, ownerID, id string, status Status) (*Project, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Status = status
	})
}

// SetTaxRate sets the per-job tax rate as a decimal fraction.
func (s *Service) SetTaxRate(ctx context.Context, ownerID, id string, rate float64) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.TaxRate = sanitize(rate)
	})
}

// AddNote prepends a note. Text is trimmed and must be non-empty.
func (s *Service) AddNote(ctx context.Context, ownerID, id, text string) (*Project, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty note text", ErrInvalidInput)
	}
	note := Note{ID: uuid.NewString(), Text: text, CreatedAt: s.clock.Now().UnixMilli()}
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Notes = append([]Note{note}, p.Notes...)
	})
}

// RemoveNote deletes a note by id.
func (s *Service) RemoveNote(ctx context.Context, ownerID, id, noteID string) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Notes = removeByID(p.Notes, noteID, func(n Note) string { return n.ID })
	})
}

// PricingInput carries a new estimate line.
type PricingInput struct {
	Item     string
	Qty      Amount
	Unit     Amount
	Category string
	Taxable  bool
}

// AddPricingLine prepends an estimate line. Item is trimmed and must be
// non-empty; qty and unit already passed coerce-or-zero decoding.
func (s *Service) AddPricingLine(ctx context.Context, ownerID, id string, in PricingInput) (*Project, error) {
	item := strings.TrimSpace(in.Item)
	if item == "" {
		return nil, fmt.Errorf("%w: empty line item", ErrInvalidInput)
	}
	line := PricingLine{
		ID:       uuid.NewString(),
		Item:     item,
		Qty:      in.Qty,
		Unit:     in.Unit,
		Category: in.Category,
		Taxable:  in.Taxable,
	}
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Pricing = append([]PricingLine{line}, p.Pricing...)
	})
}

// RemovePricingLine deletes an estimate line by id.
func (s *Service) RemovePricingLine(ctx context.Context, ownerID, id, lineID string) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Pricing = removeByID(p.Pricing, lineID, func(l PricingLine) string { return l.ID })
	})
}

// AddTask appends a checklist item, not done.
func (s *Service) AddTask(ctx context.Context, ownerID, id, text string) (*Project, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty task text", ErrInvalidInput)
	}
	task := Task{ID: uuid.NewString(), Text: text}
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Tasks = append(p.Tasks, task)
	})
}

// ToggleTask sets a task's done flag.
func (s *Service) ToggleTask(ctx context.Context, ownerID, id, taskID string, done bool) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		for i := range p.Tasks {
			if p.Tasks[i].ID == taskID {
				p.Tasks[i].Done = done
			}
		}
	})
}

// RemoveTask deletes a checklist item by id.
func (s *Service) RemoveTask(ctx context.Context, ownerID, id, taskID string) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Tasks = removeByID(p.Tasks, taskID, func(t Task) string { return t.ID })
	})
}

// AttachPhoto prepends a photo record for already-uploaded content.
func (s *Service) AttachPhoto(ctx context.Context, ownerID, id, url, caption string) (*Project, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: empty photo url", ErrInvalidInput)
	}
	photo := Photo{ID: uuid.NewString(), URL: url, Caption: caption, AddedAt: s.clock.Now().UnixMilli()}
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Photos = append([]Photo{photo}, p.Photos...)
	})
}

// RemovePhoto deletes a photo record by id. The stored bytes are the
// storage collaborator's problem, not ours.
func (s *Service) RemovePhoto(ctx context.Context, ownerID, id, photoID string) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Photos = removeByID(p.Photos, photoID, func(ph Photo) string { return ph.ID })
	})
}

// AttachDoc prepends a document record for already-uploaded content.
func (s *Service) AttachDoc(ctx context.Context, ownerID, id, name, url string) (*Project, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: empty doc url", ErrInvalidInput)
	}
	doc := Doc{ID: uuid.NewString(), Name: name, URL: url}
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Docs = append([]Doc{doc}, p.Docs...)
	})
}

// RemoveDoc deletes a document record by id.
func (s *Service) RemoveDoc(ctx context.Context, ownerID, id, docID string) (*Project, error) {
	return s.Mutate(ctx, ownerID, id, func(p *Project) {
		p.Docs = removeByID(p.Docs, docID, func(d Doc) string { return d.ID })
	})
}

// Estimate computes totals for the project's current in-memory state.
func (s *Service) Estimate(ctx context.Context, ownerID, id string) (Totals, error) {
	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(p.Pricing, p.TaxRate), nil
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
