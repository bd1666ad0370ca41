package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/internal/input"
	"github.com/aretw0/fsm/internal/logging"
	"github.com/aretw0/fsm/internal/presentation/graph"
	"github.com/aretw0/fsm/pkg/schema"
	"github.com/aretw0/fsm/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	graphURI      = "fsm://graph"
	definitionURI = "fsm://definition"
)

// StatesResponse lists state names for the list_states tool.
type StatesResponse struct {
	Event  string   `json:"event,omitempty" jsonschema_description:"The event the states were filtered by"`
	States []string `json:"states" jsonschema_description:"State names in declared order"`
}

// Server exposes a session manager as an MCP Server so agents can drive sessions as tools.
type Server struct {
	manager   *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(mgr *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		manager:   mgr,
		mcpServer: server.NewMCPServer("fsm-mcp", strings.TrimSpace(fsm.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
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
		// Create a timeout context for the graceful shutdown
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to operate on; created on first use"))

	s.mcpServer.AddTool(mcp.NewTool("trigger",
		mcp.WithDescription("Fire an event on the session. Fails if the active state has no transition for it."),
		sessionArg,
		mcp.WithString("event", mcp.Required(), mcp.Description("Event name")),
		mcp.WithOutputSchema[session.Result](),
	), mcp.NewStructuredToolHandler(s.handleTrigger))

	s.mcpServer.AddTool(mcp.NewTool("change_state",
		mcp.WithDescription("Jump the session directly to a declared state."),
		sessionArg,
		mcp.WithString("state", mcp.Required(), mcp.Description("Target state name")),
		mcp.WithOutputSchema[session.Result](),
	), mcp.NewStructuredToolHandler(s.handleChangeState))

	for _, op := range []struct {
		name, description string
		run               func(context.Context, string) (session.Result, error)
	}{
		{"get_session", "Return the session snapshot (active state, history and cursor).", s.get},
		{"undo", "Step back one entry in the session history. moved=false when already at the initial state.", s.manager.Undo},
		{"redo", "Step forward one entry in the session history. moved=false when at the end.", s.manager.Redo},
		{"reset", "Return to the initial state, keeping history.", s.manager.Reset},
		{"clear_history", "Return to the initial state and forget history.", s.manager.ClearHistory},
	} {
		run := op.run
		s.mcpServer.AddTool(mcp.NewTool(op.name,
			mcp.WithDescription(op.description),
			sessionArg,
			mcp.WithOutputSchema[session.Result](),
		), mcp.NewStructuredToolHandler(func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (session.Result, error) {
			sessionID, err := stringArg(args, "session_id")
			if err != nil {
				return session.Result{}, err
			}
			return run(ctx, sessionID)
		}))
	}

	s.mcpServer.AddTool(mcp.NewTool("list_states",
		mcp.WithDescription("List all states in declared order, or only those with a transition for event."),
		mcp.WithString("event", mcp.Description("Event to filter by (optional)")),
		mcp.WithOutputSchema[StatesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListStates))
}

// Handler methods for structured tools

func (s *Server) handleTrigger(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (session.Result, error) {
	sessionID, err := stringArg(args, "session_id")
	if err != nil {
		return session.Result{}, err
	}
	event, err := stringArg(args, "event")
	if err != nil {
		return session.Result{}, err
	}
	res, err := s.manager.Trigger(ctx, sessionID, event)
	if err != nil {
		s.logger.Warn("MCP trigger rejected", "session_id", sessionID, "event", event, "err", err)
	}
	return res, err
}

func (s *Server) handleChangeState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (session.Result, error) {
	sessionID, err := stringArg(args, "session_id")
	if err != nil {
		return session.Result{}, err
	}
	target, err := stringArg(args, "state")
	if err != nil {
		return session.Result{}, err
	}
	res, err := s.manager.ChangeState(ctx, sessionID, target)
	if err != nil {
		s.logger.Warn("MCP change_state rejected", "session_id", sessionID, "state", target, "err", err)
	}
	return res, err
}

func (s *Server) handleListStates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatesResponse, error) {
	event, _ := args["event"].(string)
	event, err := input.Sanitize(event)
	if err != nil {
		return StatesResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	mc, err := fsm.New(s.manager.Config())
	if err != nil {
		return StatesResponse{}, err
	}
	return StatesResponse{Event: event, States: mc.States(event)}, nil
}

func (s *Server) get(ctx context.Context, sessionID string) (session.Result, error) {
	snap, err := s.manager.Get(ctx, sessionID)
	return session.Result{Snapshot: snap}, err
}

// stringArg reads a required, sanitized string argument.
func stringArg(args map[string]interface{}, key string) (string, error) {
	raw, _ := args[key].(string)
	clean, err := input.Sanitize(raw)
	if err != nil {
		return "", fmt.Errorf("input rejected: %s: %w", key, err)
	}
	if clean == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return clean, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "State Diagram",
		mcp.WithResourceDescription("Mermaid flowchart of the definition"),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.manager.Config(), nil),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(definitionURI, "Definition",
		mcp.WithResourceDescription("The served definition in canonical YAML"),
		mcp.WithMIMEType("application/yaml"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := schema.Encode(s.manager.Config())
		if err != nil {
			return nil, fmt.Errorf("failed to encode definition: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      definitionURI,
				MIMEType: "application/yaml",
				Text:     string(data),
			},
		}, nil
	})
}
