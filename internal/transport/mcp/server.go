// Package mcp exposes search, suggest and recommend as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/logger"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/tastematch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
)

// Tool names.
const (
	ToolSearch    = "search"
	ToolSuggest   = "suggest"
	ToolRecommend = "recommend"
)

// SearchArgs is the input of the search tool.
type SearchArgs struct {
	Category string `json:"category" jsonschema:"Collection to search: songs or movies."`
	Query    string `json:"query" jsonschema:"Free-text query matched against title, creator, cast and genre."`
}

// SuggestArgs is the input of the suggest tool.
type SuggestArgs struct {
	Category string `json:"category" jsonschema:"Collection to search: songs or movies."`
	Query    string `json:"query" jsonschema:"Partial input; suggestions start at two characters."`
}

// RecommendArgs is the input of the recommend tool.
type RecommendArgs struct {
	Category string `json:"category" jsonschema:"Collection the entity belongs to: songs or movies."`
	ID       int    `json:"id" jsonschema:"Entity id as returned by search or suggest."`
}

// Item is one entity in a tool result.
type Item struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Creator      string   `json:"creator"`
	Genre        string   `json:"genre,omitempty"`
	Year         int      `json:"year,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	Cast         []string `json:"cast,omitempty"`
	Score        int      `json:"score,omitempty"`
	MatchPercent int      `json:"match_percent,omitempty"`
}

// SearchResult is the output of the search tool.
type SearchResult struct {
	Items []Item `json:"items"`
}

// SuggestResult is the output of the suggest tool.
type SuggestResult struct {
	Items   []Item `json:"items"`
	Visible bool   `json:"visible"`
}

// RecommendResult is the output of the recommend tool.
type RecommendResult struct {
	Selected Item   `json:"selected"`
	Items    []Item `json:"items"`
}

// Server wires the use cases into an MCP server.
type Server struct {
	server    *mcp.Server
	search    *searchuc.Service
	suggest   *suggestuc.Service
	recommend *recommenduc.Service
	logger    *zap.Logger
}

// NewServer creates an MCP server with the search, suggest and recommend tools registered.
func NewServer(
	name, version string,
	search *searchuc.Service,
	suggest *suggestuc.Service,
	recommend *recommenduc.Service,
	log *zap.Logger,
) *Server {
	s := &Server{
		server:    mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		search:    search,
		suggest:   suggest,
		recommend: recommend,
		logger:    log,
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Rank songs or movies against a free-text query. Returns up to 20 scored matches.",
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSuggest,
		Description: "Autocomplete: up to 8 entities whose title, creator, genre or cast contains the input.",
	}, s.handleSuggest)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolRecommend,
		Description: "Up to 5 entities most similar to the given one by feature-vector cosine similarity.",
	}, s.handleRecommend)

	return s
}

// MCP returns the underlying server, mostly for in-memory connections in tests.
func (s *Server) MCP() *mcp.Server { return s.server }

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp run: %w", err)
	}
	return nil
}

func (s *Server) handleSearch(
	ctx context.Context, _ *mcp.CallToolRequest, args SearchArgs,
) (*mcp.CallToolResult, SearchResult, error) {
	ctx = logger.With(logger.ContextWithLogger(ctx, s.logger),
		zap.String("tool", ToolSearch), zap.String("category", args.Category))
	c, err := parseCategory(args.Category)
	if err != nil {
		return nil, SearchResult{}, s.toolError(ToolSearch, err)
	}
	results, err := s.search.Search(ctx, c, args.Query)
	if err != nil {
		return nil, SearchResult{}, s.toolError(ToolSearch, err)
	}
	out := SearchResult{Items: make([]Item, len(results))}
	for i := range results {
		out.Items[i] = toItem(&results[i].Entity)
		out.Items[i].Score = results[i].Score
	}
	return nil, out, nil
}

func (s *Server) handleSuggest(
	ctx context.Context, _ *mcp.CallToolRequest, args SuggestArgs,
) (*mcp.CallToolResult, SuggestResult, error) {
	ctx = logger.With(logger.ContextWithLogger(ctx, s.logger),
		zap.String("tool", ToolSuggest), zap.String("category", args.Category))
	c, err := parseCategory(args.Category)
	if err != nil {
		return nil, SuggestResult{}, s.toolError(ToolSuggest, err)
	}
	sug, err := s.suggest.Suggest(ctx, c, args.Query)
	if err != nil {
		return nil, SuggestResult{}, s.toolError(ToolSuggest, err)
	}
	out := SuggestResult{Items: make([]Item, len(sug.Items)), Visible: sug.Visible}
	for i := range sug.Items {
		out.Items[i] = toItem(&sug.Items[i])
	}
	return nil, out, nil
}

func (s *Server) handleRecommend(
	ctx context.Context, _ *mcp.CallToolRequest, args RecommendArgs,
) (*mcp.CallToolResult, RecommendResult, error) {
	ctx = logger.With(logger.ContextWithLogger(ctx, s.logger),
		zap.String("tool", ToolRecommend), zap.String("category", args.Category))
	c, err := parseCategory(args.Category)
	if err != nil {
		return nil, RecommendResult{}, s.toolError(ToolRecommend, err)
	}
	res, err := s.recommend.Recommend(ctx, c, args.ID)
	if err != nil {
		return nil, RecommendResult{}, s.toolError(ToolRecommend, err)
	}
	out := RecommendResult{
		Selected: toItem(&res.Selected),
		Items:    make([]Item, len(res.Recommendations)),
	}
	for i := range res.Recommendations {
		out.Items[i] = toItem(&res.Recommendations[i].Entity)
		out.Items[i].MatchPercent = res.Recommendations[i].MatchPercent()
	}
	return nil, out, nil
}

// toolError prefixes err with its stable code so clients can branch on it.
func (s *Server) toolError(tool string, err error) error {
	code := domain.Code(err)
	if code == domain.CodeInternal {
		s.logger.Error("tool failed", zap.String("tool", tool), zap.Error(err))
		return fmt.Errorf("%s: %s failed", code, tool)
	}
	s.logger.Debug("tool rejected", zap.String("tool", tool), zap.String("code", code), zap.Error(err))
	return fmt.Errorf("%s: %w", code, err)
}

func parseCategory(raw string) (category.Category, error) {
	c, err := category.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnknownCategory, err)
	}
	return c, nil
}

func toItem(e *entity.Entity) Item {
	it := Item{
		ID:      e.ID(),
		Title:   e.Title(),
		Creator: e.Creator(),
		Genre:   e.Genre(),
		Year:    e.Year(),
	}
	if info, ok := e.Movie(); ok {
		it.Rating = info.Rating()
		it.Cast = info.Cast()
	}
	return it
}
