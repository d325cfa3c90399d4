package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/domain/project"
)

// Tool inputs and outputs. Output structs wrap domain types so the
// serialized shape stays stable even if the domain models grow fields.

type emptyInput struct{}

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type projectListOutput struct {
	Projects []project.Summary `json:"projects"`
}

type projectCreateInput struct {
	Name string `json:"name,omitempty" jsonschema:"display name for the new project"`
}

type projectOutput struct {
	Project *project.Project `json:"project"`
}

type updateInfoInput struct {
	ProjectID string  `json:"project_id" jsonschema:"project ID"`
	Name      *string `json:"name,omitempty" jsonschema:"new project name"`
	Address   *string `json:"address,omitempty" jsonschema:"street address"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	Zip       *string `json:"zip,omitempty"`
	StartDate *string `json:"start_date,omitempty" jsonschema:"planned start date (YYYY-MM-DD)"`
	EndDate   *string `json:"end_date,omitempty" jsonschema:"planned end date (YYYY-MM-DD)"`
}

type updateClientInput struct {
	ProjectID string  `json:"project_id" jsonschema:"project ID"`
	Name      *string `json:"name,omitempty" jsonschema:"client name"`
	Phone     *string `json:"phone,omitempty" jsonschema:"client phone number"`
	Email     *string `json:"email,omitempty" jsonschema:"client email"`
}

type setStatusInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Status    string `json:"status" jsonschema:"one of Lead, Estimating, Scheduled, InProgress, Complete, Invoiced"`
}

type deleteOutput struct {
	Deleted bool `json:"deleted"`
}

type noteAddInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Text      string `json:"text" jsonschema:"note text"`
}

type noteRemoveInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	NoteID    string `json:"note_id" jsonschema:"ID of the note to remove"`
}

type taskAddInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Text      string `json:"text" jsonschema:"task description"`
}

type taskToggleInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	TaskID    string `json:"task_id" jsonschema:"ID of the task"`
	Done      bool   `json:"done" jsonschema:"completion state to set"`
}

type taskRemoveInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	TaskID    string `json:"task_id" jsonschema:"ID of the task to remove"`
}

type pricingAddInput struct {
	ProjectID string  `json:"project_id" jsonschema:"project ID"`
	Item      string  `json:"item" jsonschema:"line item description"`
	Qty       float64 `json:"qty" jsonschema:"quantity"`
	Unit      float64 `json:"unit" jsonschema:"unit price in dollars"`
	Category  string  `json:"category,omitempty" jsonschema:"optional category label"`
	Taxable   bool    `json:"taxable" jsonschema:"whether the line is subject to tax"`
}

func (in pricingAddInput) toDomain() project.PricingInput {
	return project.PricingInput{
		Item:     in.Item,
		Qty:      project.Amount(in.Qty),
		Unit:     project.Amount(in.Unit),
		Category: in.Category,
		Taxable:  in.Taxable,
	}
}

type pricingRemoveInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	LineID    string `json:"line_id" jsonschema:"ID of the pricing line to remove"`
}

type taxRateSetInput struct {
	ProjectID string  `json:"project_id" jsonschema:"project ID"`
	Rate      float64 `json:"rate" jsonschema:"tax rate as a fraction, e.g. 0.0725"`
}

type estimateOutput struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grandTotal"`
	Formatted  struct {
		Subtotal   string `json:"subtotal"`
		Tax        string `json:"tax"`
		GrandTotal string `json:"grandTotal"`
	} `json:"formatted"`
}

type photoAttachInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	URL       string `json:"url" jsonschema:"photo URL"`
	Caption   string `json:"caption,omitempty" jsonschema:"optional caption"`
}

type photoRemoveInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	PhotoID   string `json:"photo_id" jsonschema:"ID of the photo to remove"`
}

type docAttachInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Name      string `json:"name" jsonschema:"document name"`
	URL       string `json:"url" jsonschema:"document URL"`
}

type docRemoveInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	DocID     string `json:"doc_id" jsonschema:"ID of the document to remove"`
}

type shareInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Email     string `json:"email" jsonschema:"email of the user to share with"`
	Role      string `json:"role,omitempty" jsonschema:"role to grant: editor or viewer (default editor)"`
}

type shareOutput struct {
	Membership *member.Membership `json:"membership"`
}

type memberListOutput struct {
	Members []member.Membership `json:"members"`
}

// projectHandler adapts a service call that returns the updated project
// into a typed tool handler.
func projectHandler[I any](call func(ctx context.Context, ownerID string, input I) (*project.Project, error)) sdkmcp.ToolHandlerFor[I, projectOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input I) (*sdkmcp.CallToolResult, projectOutput, error) {
		p, err := call(ctx, getOwnerID(ctx), input)
		if err != nil {
			return nil, projectOutput{}, mapError(err)
		}
		return nil, projectOutput{Project: p}, nil
	}
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_list",
		Description: "List all projects visible to the caller, with status and estimate totals",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, projectListOutput, error) {
		summaries, err := svc.Projects.List(ctx, getOwnerID(ctx))
		if err != nil {
			return nil, projectListOutput{}, mapError(err)
		}
		return nil, projectListOutput{Projects: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_create",
		Description: "Create a new project (a draft named 'New Project' if no name is given)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectCreateInput) (*sdkmcp.CallToolResult, projectOutput, error) {
		p, err := svc.Projects.Create(ctx, getOwnerID(ctx), input.Name)
		if err != nil {
			return nil, projectOutput{}, mapError(err)
		}
		return nil, projectOutput{Project: p}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_get",
		Description: "Get full details for a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input projectIDInput) (*project.Project, error) {
		return svc.Projects.Get(ctx, ownerID, input.ProjectID)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_delete",
		Description: "Permanently delete a project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, deleteOutput, error) {
		if err := svc.Projects.Delete(ctx, getOwnerID(ctx), input.ProjectID); err != nil {
			return nil, deleteOutput{}, mapError(err)
		}
		return nil, deleteOutput{Deleted: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_update_info",
		Description: "Update project site info: name, address, city, state, zip, start and end dates. Only provided fields change",
	}, projectHandler(func(ctx context.Context, ownerID string, input updateInfoInput) (*project.Project, error) {
		return svc.Projects.UpdateInfo(ctx, ownerID, input.ProjectID, project.InfoUpdate{
			Name:      input.Name,
			Address:   input.Address,
			City:      input.City,
			State:     input.State,
			Zip:       input.Zip,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_update_client",
		Description: "Update the client contact on a project. Only provided fields change",
	}, projectHandler(func(ctx context.Context, ownerID string, input updateClientInput) (*project.Project, error) {
		return svc.Projects.UpdateClient(ctx, ownerID, input.ProjectID, project.ClientUpdate{
			Name:  input.Name,
			Phone: input.Phone,
			Email: input.Email,
		})
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_set_status",
		Description: "Set a project's pipeline status",
	}, projectHandler(func(ctx context.Context, ownerID string, input setStatusInput) (*project.Project, error) {
		return svc.Projects.SetStatus(ctx, ownerID, input.ProjectID, project.Status(input.Status))
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "note_add",
		Description: "Add a timestamped note to a project (newest first)",
	}, projectHandler(func(ctx context.Context, ownerID string, input noteAddInput) (*project.Project, error) {
		return svc.Projects.AddNote(ctx, ownerID, input.ProjectID, input.Text)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "note_remove",
		Description: "Remove a note from a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input noteRemoveInput) (*project.Project, error) {
		return svc.Projects.RemoveNote(ctx, ownerID, input.ProjectID, input.NoteID)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "task_add",
		Description: "Add a punch-list task to a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input taskAddInput) (*project.Project, error) {
		return svc.Projects.AddTask(ctx, ownerID, input.ProjectID, input.Text)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "task_toggle",
		Description: "Mark a task done or not done",
	}, projectHandler(func(ctx context.Context, ownerID string, input taskToggleInput) (*project.Project, error) {
		return svc.Projects.ToggleTask(ctx, ownerID, input.ProjectID, input.TaskID, input.Done)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "task_remove",
		Description: "Remove a task from a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input taskRemoveInput) (*project.Project, error) {
		return svc.Projects.RemoveTask(ctx, ownerID, input.ProjectID, input.TaskID)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "pricing_add",
		Description: "Add a line item to a project's estimate",
	}, projectHandler(func(ctx context.Context, ownerID string, input pricingAddInput) (*project.Project, error) {
		return svc.Projects.AddPricingLine(ctx, ownerID, input.ProjectID, input.toDomain())
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "pricing_remove",
		Description: "Remove a line item from a project's estimate",
	}, projectHandler(func(ctx context.Context, ownerID string, input pricingRemoveInput) (*project.Project, error) {
		return svc.Projects.RemovePricingLine(ctx, ownerID, input.ProjectID, input.LineID)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "tax_rate_set",
		Description: "Set the tax rate applied to taxable estimate lines",
	}, projectHandler(func(ctx context.Context, ownerID string, input taxRateSetInput) (*project.Project, error) {
		return svc.Projects.SetTaxRate(ctx, ownerID, input.ProjectID, input.Rate)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "estimate_get",
		Description: "Compute estimate totals for a project: subtotal, tax on taxable lines, grand total",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, estimateOutput, error) {
		totals, err := svc.Projects.Estimate(ctx, getOwnerID(ctx), input.ProjectID)
		if err != nil {
			return nil, estimateOutput{}, mapError(err)
		}
		out := estimateOutput{
			Subtotal:   totals.Subtotal,
			Tax:        totals.Tax,
			GrandTotal: totals.GrandTotal,
		}
		out.Formatted.Subtotal = project.FormatMoney(totals.Subtotal)
		out.Formatted.Tax = project.FormatMoney(totals.Tax)
		out.Formatted.GrandTotal = project.FormatMoney(totals.GrandTotal)
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "photo_attach",
		Description: "Attach a photo URL to a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input photoAttachInput) (*project.Project, error) {
		return svc.Projects.AttachPhoto(ctx, ownerID, input.ProjectID, input.URL, input.Caption)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "photo_remove",
		Description: "Remove a photo from a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input photoRemoveInput) (*project.Project, error) {
		return svc.Projects.RemovePhoto(ctx, ownerID, input.ProjectID, input.PhotoID)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "doc_attach",
		Description: "Attach a document link to a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input docAttachInput) (*project.Project, error) {
		return svc.Projects.AttachDoc(ctx, ownerID, input.ProjectID, input.Name, input.URL)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "doc_remove",
		Description: "Remove a document link from a project",
	}, projectHandler(func(ctx context.Context, ownerID string, input docRemoveInput) (*project.Project, error) {
		return svc.Projects.RemoveDoc(ctx, ownerID, input.ProjectID, input.DocID)
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_share",
		Description: "Share a project with another user by email",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input shareInput) (*sdkmcp.CallToolResult, shareOutput, error) {
		role := member.Role(input.Role)
		if input.Role == "" {
			role = member.RoleEditor
		}
		m, err := svc.Members.Share(ctx, input.ProjectID, input.Email, role)
		if err != nil {
			return nil, shareOutput{}, mapError(err)
		}
		return nil, shareOutput{Membership: m}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "member_list",
		Description: "List the users a project is shared with",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input projectIDInput) (*sdkmcp.CallToolResult, memberListOutput, error) {
		members, err := svc.Members.Members(ctx, input.ProjectID)
		if err != nil {
			return nil, memberListOutput{}, mapError(err)
		}
		return nil, memberListOutput{Members: members}, nil
	})
}
