package project

import (
	"encoding/json"
	"math"
	"regexp"
	"time"
)

// Row is the persisted, flat representation of a Project. Column names and
// types are a compatibility contract with existing stored data and must not
// change. Structured columns travel as opaque JSON.
type Row struct {
	ID        string          `json:"id,omitempty"`
	OwnerID   string          `json:"owner_id"`
	Name      string          `json:"name"`
	Address   string          `json:"address"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	Zip       string          `json:"zip"`
	Status    string          `json:"status"`
	StartDate *string         `json:"start_date"`
	EndDate   *string         `json:"end_date"`
	Client    json.RawMessage `json:"client"`
	Pricing   json.RawMessage `json:"pricing"`
	Notes     json.RawMessage `json:"notes"`
	Tasks     json.RawMessage `json:"tasks"`
	Photos    json.RawMessage `json:"photos"`
	Docs      json.RawMessage `json:"docs"`
	TaxRate   *float64        `json:"tax_rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// rowIDPattern accepts exactly the canonical hyphenated UUID form with
// version 1-5 and RFC 4122 variant. Deliberately narrower than uuid.Parse,
// which also accepts URN, braced, and unhyphenated forms the write contract
// must not send.
var rowIDPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsRowID reports whether s is a storage identifier the persistence layer
// will accept on a write.
func IsRowID(s string) bool {
	return rowIDPattern.MatchString(s)
}

// RowToProject maps a persisted row to a fully defaulted Project. It is a
// total function: missing or malformed fields resolve to documented defaults
// so a loaded project always renders.
func RowToProject(row Row) *Project {
	p := &Project{
		ID:        row.ID,
		RowID:     row.ID,
		Name:      row.Name,
		Address:   row.Address,
		City:      row.City,
		State:     row.State,
		Zip:       row.Zip,
		Status:    Status(row.Status),
		StartDate: stringValue(row.StartDate),
		EndDate:   stringValue(row.EndDate),
		Notes:     []Note{},
		Photos:    []Photo{},
		Pricing:   []PricingLine{},
		Tasks:     []Task{},
		Docs:      []Doc{},
		TaxRate:   DefaultTaxRate,
	}
	if p.Status == "" {
		p.Status = StatusLead
	}
	decodeColumn(row.Client, &p.Client)
	decodeColumn(row.Notes, &p.Notes)
	decodeColumn(row.Photos, &p.Photos)
	decodeColumn(row.Pricing, &p.Pricing)
	decodeColumn(row.Tasks, &p.Tasks)
	decodeColumn(row.Docs, &p.Docs)
	if row.TaxRate != nil && !math.IsNaN(*row.TaxRate) && !math.IsInf(*row.TaxRate, 0) {
		p.TaxRate = *row.TaxRate
	}
	// A failed collection decode leaves a nil slice behind.
	if p.Notes == nil {
		p.Notes = []Note{}
	}
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
	if p.Pricing == nil {
		p.Pricing = []PricingLine{}
	}
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	if p.Docs == nil {
		p.Docs = []Doc{}
	}
	return p
}

// ProjectToRow maps a Project to its persisted shape. The id column is
// included only when the project's storage identity is a valid row UUID;
// drafts and placeholder identifiers omit it so the persistence layer
// assigns a fresh one. owner_id is always set. The updated_at timestamp
// comes from the caller's clock.
func ProjectToRow(p *Project, ownerID string, now time.Time) Row {
	row := Row{
		OwnerID:   ownerID,
		Name:      p.Name,
		Address:   p.Address,
		City:      p.City,
		State:     p.State,
		Zip:       p.Zip,
		Status:    string(p.Status),
		StartDate: nullableDate(p.StartDate),
		EndDate:   nullableDate(p.EndDate),
		Client:    encodeColumn(p.Client, `{}`),
		Pricing:   encodeColumn(p.Pricing, `[]`),
		Notes:     encodeColumn(p.Notes, `[]`),
		Tasks:     encodeColumn(p.Tasks, `[]`),
		Photos:    encodeColumn(p.Photos, `[]`),
		Docs:      encodeColumn(p.Docs, `[]`),
		TaxRate:   &p.TaxRate,
		UpdatedAt: now.UTC(),
	}
	storageID := p.RowID
	if storageID == "" {
		storageID = p.ID
	}
	if IsRowID(storageID) {
		row.ID = storageID
	}
	return row
}

func decodeColumn(data json.RawMessage, dest any) {
	if len(data) == 0 {
		return
	}
	// Malformed column content defaults silently; the row must still load.
	_ = json.Unmarshal(data, dest)
}

func encodeColumn(v any, fallback string) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(fallback)
	}
	return data
}

func nullableDate(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
