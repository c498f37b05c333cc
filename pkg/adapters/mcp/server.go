package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/toyrobot"
	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/robot"
)

// NotPlacedMessage is reported by tools that need a placed robot.
const NotPlacedMessage = "Robot is not placed"

// PositionResponse is the structured result of every robot tool.
type PositionResponse struct {
	Placed    bool   `json:"placed" jsonschema_description:"Whether the robot is on the table"`
	ID        int64  `json:"id,omitempty" jsonschema_description:"Id of the persisted record (report only)"`
	X         int    `json:"x" jsonschema_description:"Column, 0 is the left edge"`
	Y         int    `json:"y" jsonschema_description:"Row, 0 is the bottom edge"`
	Direction string `json:"direction,omitempty" jsonschema_description:"NORTH, EAST, SOUTH or WEST"`
	Message   string `json:"message,omitempty" jsonschema_description:"Explanation when the robot is not placed"`
}

// RecordView is one entry of the position log.
type RecordView struct {
	ID        int64  `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
}

// HistoryResponse lists recent records, newest first.
type HistoryResponse struct {
	Records []RecordView `json:"records" jsonschema_description:"Recent positions, newest first"`
}

// PlaceArgs are the arguments of the place tool.
type PlaceArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Server exposes a Robot as MCP tools.
type Server struct {
	bot       *robot.Robot
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(bot *robot.Robot, opts ...Option) *Server {
	s := &Server{
		bot:       bot,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("toyrobot-mcp", toyrobot.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the tools over Server-Sent Events until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("place",
		mcp.WithDescription("Place the robot on the table at x,y facing NORTH."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Column, 0 is the left edge")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Row, 0 is the bottom edge")),
		mcp.WithOutputSchema[PositionResponse](),
	), mcp.NewStructuredToolHandler(s.handlePlace))

	s.mcpServer.AddTool(mcp.NewTool("left",
		mcp.WithDescription("Turn the robot 90 degrees counter-clockwise."),
		mcp.WithOutputSchema[PositionResponse](),
	), mcp.NewStructuredToolHandler(s.turnHandler(domain.Left)))

	s.mcpServer.AddTool(mcp.NewTool("right",
		mcp.WithDescription("Turn the robot 90 degrees clockwise."),
		mcp.WithOutputSchema[PositionResponse](),
	), mcp.NewStructuredToolHandler(s.turnHandler(domain.Right)))

	s.mcpServer.AddTool(mcp.NewTool("move",
		mcp.WithDescription("Move the robot one cell forward. It stops at the edge of the table."),
		mcp.WithOutputSchema[PositionResponse](),
	), mcp.NewStructuredToolHandler(s.handleMove))

	s.mcpServer.AddTool(mcp.NewTool("report",
		mcp.WithDescription("Report the last recorded position of the robot."),
		mcp.WithOutputSchema[PositionResponse](),
	), mcp.NewStructuredToolHandler(s.handleReport))

	s.mcpServer.AddTool(mcp.NewTool("history",
		mcp.WithDescription("List recently recorded positions, newest first."),
		mcp.WithOutputSchema[HistoryResponse](),
	), mcp.NewStructuredToolHandler(s.handleHistory))
}

func (s *Server) handlePlace(ctx context.Context, request mcp.CallToolRequest, args PlaceArgs) (PositionResponse, error) {
	if err := s.bot.Place(args.X, args.Y); err != nil {
		return PositionResponse{}, err
	}
	return s.current(), nil
}

func (s *Server) turnHandler(t domain.Turn) func(context.Context, mcp.CallToolRequest, map[string]interface{}) (PositionResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PositionResponse, error) {
		s.bot.Rotate(t)
		return s.current(), nil
	}
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PositionResponse, error) {
	s.bot.Move()
	return s.current(), nil
}

func (s *Server) handleReport(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PositionResponse, error) {
	rec, err := s.bot.Report(ctx)
	if errors.Is(err, domain.ErrNotPlaced) {
		return PositionResponse{Message: NotPlacedMessage}, nil
	}
	if err != nil {
		s.logger.Error("MCP Report failed", "error", err)
		return PositionResponse{}, fmt.Errorf("report failed: %w", err)
	}
	return PositionResponse{
		Placed:    true,
		ID:        rec.ID,
		X:         rec.X,
		Y:         rec.Y,
		Direction: rec.Direction.String(),
	}, nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (HistoryResponse, error) {
	records, err := s.bot.History(ctx)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("history failed: %w", err)
	}

	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, RecordView{ID: r.ID, X: r.X, Y: r.Y, Direction: r.Direction.String()})
	}
	return HistoryResponse{Records: views}, nil
}

func (s *Server) current() PositionResponse {
	pos, placed := s.bot.Position()
	if !placed {
		return PositionResponse{Message: NotPlacedMessage}
	}
	return PositionResponse{
		Placed:    true,
		X:         pos.X,
		Y:         pos.Y,
		Direction: pos.Direction.String(),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("toyrobot://position", "Current robot position",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.current())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "toyrobot://position",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
