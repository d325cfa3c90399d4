package project

import (
	"encoding/json"
	"math"
	"strconv"
)

// DefaultTaxRate is the tax rate applied to new projects and to rows that
// carry no parseable tax_rate (7.25%).
const DefaultTaxRate = 0.0725

// Status tracks where a job sits in the pipeline. There is no enforced
// transition graph; any status may move to any other.
type Status string

const (
	StatusLead       Status = "Lead"
	StatusEstimating Status = "Estimating"
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "InProgress"
	StatusComplete   Status = "Complete"
	StatusInvoiced   Status = "Invoiced"
)

// Statuses lists all statuses in pipeline order.
func Statuses() []Status {
	return []Status{
		StatusLead,
		StatusEstimating,
		StatusScheduled,
		StatusInProgress,
		StatusComplete,
		StatusInvoiced,
	}
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusLead, StatusEstimating, StatusScheduled, StatusInProgress, StatusComplete, StatusInvoiced:
		return true
	}
	return false
}

// Amount is a JSON number that tolerates malformed input. Quantities and
// unit prices arrive from stored rows and client edits as numbers or numeric
// strings; anything unparseable (or non-finite) decodes to 0 instead of
// failing the whole row.
type Amount float64

// UnmarshalJSON implements coerce-or-zero decoding.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(sanitize(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*a = Amount(sanitize(n))
			return nil
		}
	}
	*a = 0
	return nil
}

// MarshalJSON writes the amount as a plain number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(sanitize(float64(a)))
}

func sanitize(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Client holds the customer contact block. Never nil on a loaded project;
// absent client columns default to empty strings.
type Client struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Note is a timestamped free-text note, newest first. CreatedAt is epoch
// milliseconds, matching stored rows.
type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// Photo references previously uploaded binary content by public URL; the
// record does not own the bytes.
type Photo struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	AddedAt int64  `json:"addedAt"`
}

// PricingLine is one estimate row. Line total is Qty * Unit.
type PricingLine struct {
	ID       string `json:"id"`
	Item     string `json:"item"`
	Qty      Amount `json:"qty"`
	Unit     Amount `json:"unit"`
	Category string `json:"category,omitempty"`
	Taxable  bool   `json:"taxable"`
}

// Task is a checklist item, insertion order.
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Doc references an uploaded document by public URL.
type Doc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Project is the in-memory, caller-facing representation of a job.
//
// ID is the logical identifier; RowID is the storage identity confirmed by
// the persistence layer. They differ only for drafts that have not been
// written yet, which carry a locally generated placeholder.
type Project struct {
	ID        string        `json:"id"`
	RowID     string        `json:"-"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	City      string        `json:"city"`
	State     string        `json:"state"`
	Zip       string        `json:"zip"`
	Client    Client        `json:"client"`
	Status    Status        `json:"status"`
	StartDate string        `json:"startDate,omitempty"`
	EndDate   string        `json:"endDate,omitempty"`
	Notes     []Note        `json:"notes"`
	Photos    []Photo       `json:"photos"`
	Pricing   []PricingLine `json:"pricing"`
	Tasks     []Task        `json:"tasks"`
	Docs      []Doc         `json:"docs"`
	TaxRate   float64       `json:"taxRate"`
}

// New returns a draft project with all collections empty and scalar fields
// defaulted. It has no storage identity until inserted.
func New(name string) *Project {
	return &Project{
		Name:    name,
		Status:  StatusLead,
		Notes:   []Note{},
		Photos:  []Photo{},
		Pricing: []PricingLine{},
		Tasks:   []Task{},
		Docs:    []Doc{},
		TaxRate: DefaultTaxRate,
	}
}

// Clone returns a value copy with freshly allocated collections, safe to
// hand to another goroutine.
func (p *Project) Clone() Project {
	out := *p
	out.Notes = append([]Note(nil), p.Notes...)
	out.Photos = append([]Photo(nil), p.Photos...)
	out.Pricing = append([]PricingLine(nil), p.Pricing...)
	out.Tasks = append([]Task(nil), p.Tasks...)
	out.Docs = append([]Doc(nil), p.Docs...)
	return out
}
