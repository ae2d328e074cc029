// Package mcp exposes the admin console's read paths as MCP tools over
// stdio. Tools are read-only: mutations stay behind the interactive CLI
// and its confirmation prompts.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/config"
	"github.com/mealdash/mealadmin/internal/database"
	"github.com/mealdash/mealadmin/internal/listing"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/model"
	"github.com/mealdash/mealadmin/internal/usecase"
)

const defaultPerPage = 15

// Server wraps the MCP server with admin-console functionality
type Server struct {
	server *mcp.Server
	dbCtx  *database.Context
	deps   usecase.Deps
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config) (*Server, error) {
	dbCtx, err := database.CreateDatabase(cfg.CacheDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "mealadmin",
		Version: "0.1.0",
	}, nil)

	client := api.New(cfg.BaseURL, cfg.Token, cfg.RequestTimeout, nil)
	lookups := lookup.NewCache(cfg.Language, database.NewLookupRepository(dbCtx), cfg.CacheTTL, nil)

	s := &Server{
		server: mcpServer,
		dbCtx:  dbCtx,
		deps:   usecase.Deps{Client: client, Lookups: lookups},
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	defer database.CloseDatabase(s.dbCtx)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	// admin_list
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "admin_list",
		Description: "List records of one admin entity with search, filters, sort, and paging",
	}, s.handleList)

	// admin_get
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "admin_get",
		Description: "Fetch one record by id as JSON",
	}, s.handleGet)

	// admin_statistics
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "admin_statistics",
		Description: "Fetch the aggregate statistics block for an entity",
	}, s.handleStatistics)
}

// Input/Output types for each tool

type ListInput struct {
	Entity   string  `json:"entity" jsonschema:"required,enum=addresses;meals;payments;subscriptions;restaurants;users,description=Entity to list"`
	Search   *string `json:"search,omitempty" jsonschema:"description=Free text search"`
	Filter   *string `json:"filter,omitempty" jsonschema:"description=Structured filter as key=value"`
	SortBy   *string `json:"sortBy,omitempty" jsonschema:"description=Sort field"`
	SortDesc *bool   `json:"sortDesc,omitempty" jsonschema:"description=Sort descending"`
	Page     *int    `json:"page,omitempty" jsonschema:"description=Page number (1-based)"`
	PerPage  *int    `json:"perPage,omitempty" jsonschema:"description=Rows per page"`
}

type ListOutput struct {
	Rows       []ListRow `json:"rows"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Total      int       `json:"total"`
}

type ListRow struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Status    string            `json:"status,omitempty"`
	CreatedAt string            `json:"createdAt,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

type GetInput struct {
	Entity string `json:"entity" jsonschema:"required,enum=addresses;meals;payments;subscriptions;restaurants;users,description=Entity to fetch"`
	ID     int64  `json:"id" jsonschema:"required,description=Record id"`
}

type GetOutput struct {
	Content string `json:"content"`
}

type StatisticsInput struct {
	Entity string `json:"entity" jsonschema:"required,enum=payments;subscriptions;users,description=Entity whose aggregates to fetch"`
}

type StatisticsOutput struct {
	Values map[string]string `json:"values"`
}

// Tool handlers

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	q := queryFromInput(input)

	var out ListOutput
	var err error
	switch input.Entity {
	case "addresses":
		out, err = s.listAddresses(ctx, q)
	case "meals":
		out, err = s.listMeals(ctx, q)
	case "payments":
		out, err = s.listPayments(ctx, q)
	case "subscriptions":
		out, err = s.listSubscriptions(ctx, q)
	case "restaurants":
		out, err = s.listRestaurants(ctx, q)
	case "users":
		out, err = s.listUsers(ctx, q)
	default:
		return nil, ListOutput{}, fmt.Errorf("unknown entity: %s", input.Entity)
	}
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list %s: %w", input.Entity, err)
	}
	return nil, out, nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, GetOutput, error) {
	if !validEntity(input.Entity) {
		return nil, GetOutput{}, fmt.Errorf("unknown entity: %s", input.Entity)
	}

	var raw json.RawMessage
	path := fmt.Sprintf("/api/admin/%s/%d", input.Entity, input.ID)
	if _, err := s.deps.Client.Get(ctx, path, nil, &raw); err != nil {
		return nil, GetOutput{}, fmt.Errorf("failed to get record: %w", err)
	}
	if len(raw) == 0 {
		return nil, GetOutput{}, fmt.Errorf("record not found: %s/%d", input.Entity, input.ID)
	}

	var pretty json.RawMessage = raw
	if indented, err := json.MarshalIndent(json.RawMessage(raw), "", "  "); err == nil {
		pretty = indented
	}
	return nil, GetOutput{Content: string(pretty)}, nil
}

func (s *Server) handleStatistics(ctx context.Context, req *mcp.CallToolRequest, input StatisticsInput) (*mcp.CallToolResult, StatisticsOutput, error) {
	switch input.Entity {
	case "payments":
		var stats model.PaymentStatistics
		if _, err := s.deps.Client.Get(ctx, "/api/admin/payments/statistics", nil, &stats); err != nil {
			return nil, StatisticsOutput{}, fmt.Errorf("failed to get statistics: %w", err)
		}
		return nil, StatisticsOutput{Values: map[string]string{
			"total":           fmt.Sprintf("%d", stats.TotalCount),
			"completed":       fmt.Sprintf("%d", stats.CompletedCount),
			"pending":         fmt.Sprintf("%d", stats.PendingCount),
			"failed":          fmt.Sprintf("%d", stats.FailedCount),
			"total_amount":    stats.TotalAmount.StringFixed(2),
			"refunded_amount": stats.RefundedAmount.StringFixed(2),
		}}, nil
	case "subscriptions":
		var stats model.SubscriptionStatistics
		if _, err := s.deps.Client.Get(ctx, "/api/admin/subscriptions/statistics", nil, &stats); err != nil {
			return nil, StatisticsOutput{}, fmt.Errorf("failed to get statistics: %w", err)
		}
		return nil, StatisticsOutput{Values: map[string]string{
			"total":     fmt.Sprintf("%d", stats.TotalCount),
			"active":    fmt.Sprintf("%d", stats.ActiveCount),
			"paused":    fmt.Sprintf("%d", stats.PausedCount),
			"cancelled": fmt.Sprintf("%d", stats.CancelledCount),
		}}, nil
	case "users":
		var stats model.UserStatistics
		if _, err := s.deps.Client.Get(ctx, "/api/admin/users/statistics", nil, &stats); err != nil {
			return nil, StatisticsOutput{}, fmt.Errorf("failed to get statistics: %w", err)
		}
		return nil, StatisticsOutput{Values: map[string]string{
			"total":          fmt.Sprintf("%d", stats.TotalCount),
			"active":         fmt.Sprintf("%d", stats.ActiveCount),
			"new_this_month": fmt.Sprintf("%d", stats.NewThisMonth),
			"customers":      fmt.Sprintf("%d", stats.CustomerCount),
		}}, nil
	default:
		return nil, StatisticsOutput{}, fmt.Errorf("no statistics for entity: %s", input.Entity)
	}
}

// Per-entity listers

func (s *Server) listAddresses(ctx context.Context, q listing.Query) (ListOutput, error) {
	uc := usecase.NewAddresses(s.deps)
	uc.LoadLookups(ctx)
	items, page, err := uc.List(ctx, q)
	if err != nil {
		return ListOutput{}, err
	}
	rows := make([]ListRow, 0, len(items))
	for _, a := range items {
		rows = append(rows, ListRow{
			ID:        a.ID,
			Title:     a.Street,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
			Fields: map[string]string{
				"user":    uc.UserLabel(a),
				"area":    uc.AreaLabel(a),
				"primary": fmt.Sprintf("%t", a.IsPrimary),
			},
		})
	}
	return ListOutput{Rows: rows, Page: page.CurrentPage, TotalPages: page.TotalPages, Total: page.Total}, nil
}

func (s *Server) listMeals(ctx context.Context, q listing.Query) (ListOutput, error) {
	uc := usecase.NewMeals(s.deps)
	uc.LoadLookups(ctx)
	res, err := uc.List(ctx, q)
	if err != nil {
		return ListOutput{}, err
	}
	rows := make([]ListRow, 0, len(res.Items))
	for _, m := range res.Items {
		availability := "unavailable"
		if m.IsAvailable {
			availability = "available"
		}
		rows = append(rows, ListRow{
			ID:        m.ID,
			Title:     m.Name().In(s.deps.Lookups.Lang()),
			Status:    availability,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
			Fields: map[string]string{
				"restaurant": uc.RestaurantLabel(m),
				"type":       m.MealType,
				"price":      m.Price.StringFixed(2),
			},
		})
	}
	return ListOutput{Rows: rows, Page: res.Pagination.CurrentPage, TotalPages: res.Pagination.TotalPages, Total: res.Pagination.Total}, nil
}

func (s *Server) listPayments(ctx context.Context, q listing.Query) (ListOutput, error) {
	uc := usecase.NewPayments(s.deps)
	uc.LoadLookups(ctx)
	items, page, err := uc.List(ctx, q)
	if err != nil {
		return ListOutput{}, err
	}
	rows := make([]ListRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, ListRow{
			ID:        p.ID,
			Title:     uc.UserLabel(p),
			Status:    p.Status,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
			Fields: map[string]string{
				"restaurant": uc.RestaurantLabel(p),
				"amount":     p.Amount.StringFixed(2),
				"net":        p.Net().StringFixed(2),
				"method":     p.Method,
			},
		})
	}
	return ListOutput{Rows: rows, Page: page.CurrentPage, TotalPages: page.TotalPages, Total: page.Total}, nil
}

func (s *Server) listSubscriptions(ctx context.Context, q listing.Query) (ListOutput, error) {
	uc := usecase.NewSubscriptions(s.deps)
	uc.LoadLookups(ctx)
	res, err := uc.List(ctx, q)
	if err != nil {
		return ListOutput{}, err
	}
	rows := make([]ListRow, 0, len(res.Items))
	for _, sub := range res.Items {
		rows = append(rows, ListRow{
			ID:        sub.ID,
			Title:     uc.UserLabel(sub),
			Status:    sub.Status,
			CreatedAt: sub.CreatedAt.Format(time.RFC3339),
			Fields: map[string]string{
				"restaurant": uc.RestaurantLabel(sub),
				"start":      sub.StartDate,
				"end":        sub.EndDate,
				"items":      fmt.Sprintf("%d", len(sub.Items)),
			},
		})
	}
	return ListOutput{Rows: rows, Page: res.Pagination.CurrentPage, TotalPages: res.Pagination.TotalPages, Total: res.Pagination.Total}, nil
}

func (s *Server) listRestaurants(ctx context.Context, q listing.Query) (ListOutput, error) {
	uc := usecase.NewRestaurants(s.deps)
	res, err := uc.List(ctx, q)
	if err != nil {
		return ListOutput{}, err
	}
	rows := make([]ListRow, 0, len(res.Items))
	for _, r := range res.Items {
		status := "inactive"
		if r.IsActive {
			status = "active"
		}
		rows = append(rows, ListRow{
			ID:        r.ID,
			Title:     r.Name().In(s.deps.Lookups.Lang()),
			Status:    status,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			Fields: map[string]string{
				"commission": r.Commission.StringFixed(2),
			},
		})
	}
	return ListOutput{Rows: rows, Page: res.Pagination.CurrentPage, TotalPages: res.Pagination.TotalPages, Total: res.Pagination.Total}, nil
}

func (s *Server) listUsers(ctx context.Context, q listing.Query) (ListOutput, error) {
	uc := usecase.NewUsers(s.deps)
	items, page, err := uc.List(ctx, q)
	if err != nil {
		return ListOutput{}, err
	}
	rows := make([]ListRow, 0, len(items))
	for _, u := range items {
		status := "inactive"
		if u.IsActive {
			status = "active"
		}
		rows = append(rows, ListRow{
			ID:        u.ID,
			Title:     u.Name,
			Status:    status,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
			Fields: map[string]string{
				"email": u.Email,
				"phone": u.Phone,
				"role":  u.Role,
			},
		})
	}
	return ListOutput{Rows: rows, Page: page.CurrentPage, TotalPages: page.TotalPages, Total: page.Total}, nil
}

func queryFromInput(input ListInput) listing.Query {
	perPage := defaultPerPage
	if input.PerPage != nil && *input.PerPage > 0 {
		perPage = *input.PerPage
	}
	q := listing.NewQuery(perPage)
	if input.Search != nil {
		q.SetSearch(*input.Search)
	}
	if input.Filter != nil {
		if key, value, ok := splitFilter(*input.Filter); ok {
			q.SetFilter(key, value)
		}
	}
	if input.SortBy != nil {
		q.SetSort(*input.SortBy)
		if input.SortDesc != nil && *input.SortDesc {
			// A second toggle on the same field flips to descending.
			q.SetSort(*input.SortBy)
		}
	}
	if input.Page != nil && *input.Page > 0 {
		q.SetPage(*input.Page)
	}
	return q
}

func splitFilter(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func validEntity(entity string) bool {
	switch entity {
	case "addresses", "meals", "payments", "subscriptions", "restaurants", "users":
		return true
	}
	return false
}
