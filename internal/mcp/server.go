package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/domain/project"
)

const serverInstructions = `Jobsite tracks construction projects: site info, client contacts,
status, notes, tasks, photos, documents, and a line-item estimate with
tax. Start with project_list to see what exists, project_get for full
detail, and estimate_get for computed totals. Mutations are saved
automatically; there is no explicit save call.`

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]project.Summary, error)
	Create(ctx context.Context, ownerID, name string) (*project.Project, error)
	Get(ctx context.Context, ownerID, id string) (*project.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
	UpdateInfo(ctx context.Context, ownerID, id string, upd project.InfoUpdate) (*project.Project, error)
	UpdateClient(ctx context.Context, ownerID, id string, upd project.ClientUpdate) (*project.Project, error)
	SetStatus(ctx context.Context, ownerID, id string, status project.Status) (*project.Project, error)
	SetTaxRate(ctx context.Context, ownerID, id string, rate float64) (*project.Project, error)
	AddNote(ctx context.Context, ownerID, id, text string) (*project.Project, error)
	RemoveNote(ctx context.Context, ownerID, id, noteID string) (*project.Project, error)
	AddPricingLine(ctx context.Context, ownerID, id string, in project.PricingInput) (*project.Project, error)
	RemovePricingLine(ctx context.Context, ownerID, id, lineID string) (*project.Project, error)
	AddTask(ctx context.Context, ownerID, id, text string) (*project.Project, error)
	ToggleTask(ctx context.Context, ownerID, id, taskID string, done bool) (*project.Project, error)
	RemoveTask(ctx context.Context, ownerID, id, taskID string) (*project.Project, error)
	AttachPhoto(ctx context.Context, ownerID, id, url, caption string) (*project.Project, error)
	RemovePhoto(ctx context.Context, ownerID, id, photoID string) (*project.Project, error)
	AttachDoc(ctx context.Context, ownerID, id, name, url string) (*project.Project, error)
	RemoveDoc(ctx context.Context, ownerID, id, docID string) (*project.Project, error)
	Estimate(ctx context.Context, ownerID, id string) (project.Totals, error)
}

// MemberService defines sharing operations needed by MCP.
type MemberService interface {
	Share(ctx context.Context, projectID, email string, role member.Role) (*member.Membership, error)
	Members(ctx context.Context, projectID string) ([]member.Membership, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Members  MemberService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      PrincipalResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "jobsite",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
