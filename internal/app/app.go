// Package app wires the backend clients and domain managers shared by the MCP
// server and the CLI.
package app

import (
	"fmt"

	"github.com/jamesprial/marketplace-mcp/internal/auth"
	"github.com/jamesprial/marketplace-mcp/internal/business"
	"github.com/jamesprial/marketplace-mcp/internal/businesstype"
	"github.com/jamesprial/marketplace-mcp/internal/config"
	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/product"
	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/jamesprial/marketplace-mcp/internal/tools"
	"github.com/jamesprial/marketplace-mcp/internal/tutorial"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
	"github.com/sirupsen/logrus"
)

// App holds one instance of every backend-facing component.
type App struct {
	Runner        *graphql.Runner
	Uploader      upload.Uploader
	Auth          *auth.GraphQLAuthManager
	Businesses    *business.GraphQLBusinessManager
	BusinessTypes *businesstype.GraphQLManager
	Products      *product.GraphQLProductManager
	Tutorials     *tutorial.GraphQLTutorialManager
}

// New builds the GraphQL client, the upload client and the domain managers
// from cfg.
func New(cfg *config.Config, logger logrus.FieldLogger) (*App, error) {
	client, err := graphql.NewHTTPClient(cfg.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("graphql client: %w", err)
	}
	uploader, err := upload.NewClient(cfg.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("upload client: %w", err)
	}
	return NewWithClients(graphql.NewRunner(client, logger), uploader), nil
}

// NewWithClients builds the domain managers on top of existing clients.
func NewWithClients(runner *graphql.Runner, uploader upload.Uploader) *App {
	return &App{
		Runner:        runner,
		Uploader:      uploader,
		Auth:          auth.NewGraphQLAuthManager(runner),
		Businesses:    business.NewGraphQLBusinessManager(runner, uploader),
		BusinessTypes: businesstype.NewGraphQLManager(runner, uploader),
		Products:      product.NewGraphQLProductManager(runner, uploader),
		Tutorials:     tutorial.NewGraphQLTutorialManager(runner, uploader),
	}
}

// DestructiveTools returns every tool name that requires confirmation.
func DestructiveTools() []string {
	var names []string
	names = append(names, businesstype.DestructiveTools...)
	names = append(names, product.DestructiveTools...)
	names = append(names, tutorial.DestructiveTools...)
	return names
}

// Registrations returns the full MCP tool set. audit may be nil.
func (a *App) Registrations(confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) []tools.Registration {
	var regs []tools.Registration
	regs = append(regs, auth.AuthTools(a.Auth, audit)...)
	regs = append(regs, business.BusinessTools(a.Businesses, audit)...)
	regs = append(regs, businesstype.BusinessTypeTools(a.BusinessTypes, confirm, audit)...)
	regs = append(regs, product.ProductTools(a.Products, confirm, audit)...)
	regs = append(regs, tutorial.TutorialTools(a.Tutorials, confirm, audit)...)
	regs = append(regs, upload.UploadTools(a.Uploader, audit)...)
	regs = append(regs, graphql.GraphQLTools(a.Runner, audit)...)
	return regs
}
