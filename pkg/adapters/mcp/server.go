package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/motion"
	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/internal/presentation/tui"
	"github.com/aretw0/motion/pkg/config"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// LibraryURI is the resource listing the transitions tools may name.
const LibraryURI = "motion://library"

// FrameResponse aligns with the HTTP Frame schema.
type FrameResponse struct {
	Frame *domain.Frame `json:"frame" jsonschema_description:"The frame rendered after the call"`
}

// SessionsResponse lists stored sessions.
type SessionsResponse struct {
	Sessions []string `json:"sessions" jsonschema_description:"IDs of every stored session"`
}

// CloseResponse acknowledges a closed session.
type CloseResponse struct {
	Closed string `json:"closed" jsonschema_description:"ID of the closed session"`
}

// SessionArgs addresses one session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// OpenVisibilityArgs are the arguments of open_visibility.
type OpenVisibilityArgs struct {
	SessionID string `json:"session_id"`
	ports.VisibilityRequest
}

// SetVisibleArgs are the arguments of set_visible.
type SetVisibleArgs struct {
	SessionID string `json:"session_id"`
	Visible   bool   `json:"visible"`
	Enter     string `json:"enter"`
	Exit      string `json:"exit"`
}

// OpenContentArgs are the arguments of open_content.
type OpenContentArgs struct {
	SessionID string `json:"session_id"`
	ports.ContentRequest
}

// SetTargetArgs are the arguments of set_target.
type SetTargetArgs struct {
	SessionID string `json:"session_id"`
	Target    string `json:"target"`
	Enter     string `json:"enter"`
	Exit      string `json:"exit"`
}

// Server exposes a session engine as an MCP server.
type Server struct {
	engine    ports.SessionEngine
	library   *config.Library
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance. The library backs the
// motion://library resource.
func NewServer(engine ports.SessionEngine, library *config.Library, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		library:   library,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("motion-mcp", strings.TrimSpace(motion.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionParam() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("ID of the session"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("open_visibility",
		mcp.WithDescription("Open a session animating one element in and out of view."),
		sessionParam(),
		mcp.WithBoolean("visible", mcp.Description("Whether the element starts visible")),
		mcp.WithBoolean("start_with_transition", mcp.Description("Animate the initial state")),
		mcp.WithBoolean("remove_from_dom_when_hidden", mcp.Description("Remove the element once hidden")),
		mcp.WithBoolean("disappear_when_hidden", mcp.Description("Keep the element with display:none once hidden")),
		mcp.WithString("enter", mcp.Description("Enter transition name from motion://library")),
		mcp.WithString("exit", mcp.Description("Exit transition name from motion://library")),
		mcp.WithString("class", mcp.Description("Extra CSS classes")),
		mcp.WithString("style", mcp.Description("Extra inline style")),
		mcp.WithOutputSchema[FrameResponse](),
	), mcp.NewStructuredToolHandler(s.handleOpenVisibility))

	s.mcpServer.AddTool(mcp.NewTool("set_visible",
		mcp.WithDescription("Show or hide the element of a visibility session."),
		sessionParam(),
		mcp.WithBoolean("visible", mcp.Required(), mcp.Description("Target visibility")),
		mcp.WithString("enter", mcp.Description("Replace the enter transition")),
		mcp.WithString("exit", mcp.Description("Replace the exit transition")),
		mcp.WithOutputSchema[FrameResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetVisible))

	s.mcpServer.AddTool(mcp.NewTool("open_content",
		mcp.WithDescription("Open a session switching animated content between named states."),
		sessionParam(),
		mcp.WithString("target", mcp.Required(), mcp.Description("Initial state")),
		mcp.WithBoolean("new_state_on_top", mcp.Description("Render the new state after the old ones")),
		mcp.WithBoolean("start_with_transition", mcp.Description("Animate the initial state")),
		mcp.WithBoolean("preserve_hidden_elements", mcp.Description("Keep hidden states rendered for reuse")),
		mcp.WithBoolean("reassign_transitions_on_each_update", mcp.Description("Resolve transitions on every update")),
		mcp.WithBoolean("keep_content_in_bounds", mcp.Description("Add min-height: 0 to every state")),
		mcp.WithString("shared_enter", mcp.Description("Enter transition shared by every state")),
		mcp.WithString("shared_exit", mcp.Description("Exit transition shared by every state")),
		mcp.WithString("class", mcp.Description("Extra CSS classes of the container")),
		mcp.WithString("style", mcp.Description("Extra inline style of the container")),
		mcp.WithOutputSchema[FrameResponse](),
	), mcp.NewStructuredToolHandler(s.handleOpenContent))

	s.mcpServer.AddTool(mcp.NewTool("set_target",
		mcp.WithDescription("Switch a content session to another state."),
		sessionParam(),
		mcp.WithString("target", mcp.Required(), mcp.Description("New state")),
		mcp.WithString("enter", mcp.Description("Enter transition of the new state")),
		mcp.WithString("exit", mcp.Description("Exit transition of the new state")),
		mcp.WithOutputSchema[FrameResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetTarget))

	s.mcpServer.AddTool(mcp.NewTool("get_frame",
		mcp.WithDescription("Get the last frame rendered by a session."),
		sessionParam(),
		mcp.WithOutputSchema[FrameResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetFrame))

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List every stored session."),
		mcp.WithOutputSchema[SessionsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListSessions))

	s.mcpServer.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Close a session and delete its frame."),
		sessionParam(),
		mcp.WithOutputSchema[CloseResponse](),
	), mcp.NewStructuredToolHandler(s.handleCloseSession))
}

// Handler methods for structured tools

func (s *Server) handleOpenVisibility(ctx context.Context, request mcp.CallToolRequest, args OpenVisibilityArgs) (FrameResponse, error) {
	frame, err := s.engine.OpenVisibility(ctx, args.SessionID, args.VisibilityRequest)
	if err != nil {
		return FrameResponse{}, fmt.Errorf("open_visibility failed: %w", err)
	}
	return FrameResponse{Frame: frame}, nil
}

func (s *Server) handleSetVisible(ctx context.Context, request mcp.CallToolRequest, args SetVisibleArgs) (FrameResponse, error) {
	frame, err := s.engine.SetVisible(ctx, args.SessionID, args.Visible, args.Enter, args.Exit)
	if err != nil {
		return FrameResponse{}, fmt.Errorf("set_visible failed: %w", err)
	}
	return FrameResponse{Frame: frame}, nil
}

func (s *Server) handleOpenContent(ctx context.Context, request mcp.CallToolRequest, args OpenContentArgs) (FrameResponse, error) {
	frame, err := s.engine.OpenContent(ctx, args.SessionID, args.ContentRequest)
	if err != nil {
		return FrameResponse{}, fmt.Errorf("open_content failed: %w", err)
	}
	return FrameResponse{Frame: frame}, nil
}

func (s *Server) handleSetTarget(ctx context.Context, request mcp.CallToolRequest, args SetTargetArgs) (FrameResponse, error) {
	frame, err := s.engine.SetTarget(ctx, args.SessionID, args.Target, args.Enter, args.Exit)
	if err != nil {
		return FrameResponse{}, fmt.Errorf("set_target failed: %w", err)
	}
	return FrameResponse{Frame: frame}, nil
}

func (s *Server) handleGetFrame(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (FrameResponse, error) {
	frame, err := s.engine.Frame(ctx, args.SessionID)
	if err != nil {
		return FrameResponse{}, fmt.Errorf("get_frame failed: %w", err)
	}
	return FrameResponse{Frame: frame}, nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (SessionsResponse, error) {
	ids, err := s.engine.Sessions(ctx)
	if err != nil {
		return SessionsResponse{}, fmt.Errorf("list_sessions failed: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return SessionsResponse{Sessions: ids}, nil
}

func (s *Server) handleCloseSession(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (CloseResponse, error) {
	if err := s.engine.Close(ctx, args.SessionID); err != nil {
		return CloseResponse{}, fmt.Errorf("close_session failed: %w", err)
	}
	return CloseResponse{Closed: args.SessionID}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(LibraryURI, "Transition Library",
		mcp.WithResourceDescription("Named specifications and transitions with their resolved CSS"),
		mcp.WithMIMEType("application/json"),
	), s.readLibrary)
}

func (s *Server) readLibrary(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	report, err := tui.Describe(s.library)
	if err != nil {
		return nil, fmt.Errorf("failed to describe library: %w", err)
	}
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      LibraryURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
