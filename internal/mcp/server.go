// Package mcp provides an MCP (Model Context Protocol) server for readmi.
// This allows AI agents to extract and browse documentation elements through
// MCP tools instead of generated files.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bigmistqke/readmi/internal/extract"
	"github.com/bigmistqke/readmi/internal/output"
	"github.com/bigmistqke/readmi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with readmi-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	store        *store.Store
	extractor    *extract.Extractor
	logger       *slog.Logger
	indent       int
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	DBPath    string             // Export database extracted files are recorded in
	Extractor *extract.Extractor // Extractor used by readmi_extract (nil = defaults)
	Logger    *slog.Logger       // Logger (nil = discard)
	Indent    int                // Indent for formatted tool output (0 = 2)
	Tools     []string           // Which tools to expose (empty = all)
	Timeout   time.Duration      // Inactivity timeout (0 = no timeout)
}

// AllTools lists all available tools
var AllTools = []string{"readmi_extract", "readmi_show", "readmi_refs"}

// New creates a new MCP server for readmi
func New(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("export database path is required")
	}

	storeDB, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"readmi",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		store:        storeDB,
		extractor:    cfg.Extractor,
		logger:       cfg.Logger,
		indent:       cfg.Indent,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}
	if s.extractor == nil {
		s.extractor = extract.New(extract.WithLogger(cfg.Logger))
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.indent <= 0 {
		s.indent = 2
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			storeDB.Close()
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "readmi_extract":
		return s.registerExtractTool()
	case "readmi_show":
		return s.registerShowTool()
	case "readmi_refs":
		return s.registerRefsTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.logger.Info("stopping after inactivity", "timeout", s.timeout)
			s.Close()
			os.Exit(0)
		}
	}
}

func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Close closes the server and its resources
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"readmi_extract": {
		Name:        "readmi_extract",
		Description: "Extract the documented declarations of a TypeScript file and record them for readmi_show and readmi_refs.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Path of the .ts, .tsx or .d.ts file", Required: true},
			{Name: "format", Type: "string", Description: "Result format: json, yaml, ts (default: json)"},
		},
	},
	"readmi_show": {
		Name:        "readmi_show",
		Description: "Show the recorded documentation element with the given name.",
		Parameters: []ParameterSchema{
			{Name: "name", Type: "string", Description: "Element name to look up", Required: true},
			{Name: "source", Type: "string", Description: "Only consider elements extracted from this file"},
		},
	},
	"readmi_refs": {
		Name:        "readmi_refs",
		Description: "List the recorded elements whose type annotations reference a type name.",
		Parameters: []ParameterSchema{
			{Name: "name", Type: "string", Description: "Referenced type name", Required: true},
		},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]ToolSchema, 0, len(s.tools))
	for name := range s.tools {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the result text or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	switch name {
	case "readmi_extract":
		path, _ := args["path"].(string)
		if path == "" {
			return "", fmt.Errorf("path parameter is required")
		}
		format, _ := args["format"].(string)
		return s.executeExtract(ctx, path, format)

	case "readmi_show":
		name, _ := args["name"].(string)
		if name == "" {
			return "", fmt.Errorf("name parameter is required")
		}
		source, _ := args["source"].(string)
		return s.executeShow(ctx, name, source)

	case "readmi_refs":
		name, _ := args["name"].(string)
		if name == "" {
			return "", fmt.Errorf("name parameter is required")
		}
		return s.executeRefs(ctx, name)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// registerExtractTool registers the readmi_extract tool
func (s *Server) registerExtractTool() error {
	tool := mcp.NewTool("readmi_extract",
		mcp.WithDescription(toolSchemaRegistry["readmi_extract"].Description),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the .ts, .tsx or .d.ts file"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: json, yaml, ts (default: json)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleTool("readmi_extract"))
	return nil
}

// registerShowTool registers the readmi_show tool
func (s *Server) registerShowTool() error {
	tool := mcp.NewTool("readmi_show",
		mcp.WithDescription(toolSchemaRegistry["readmi_show"].Description),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Element name to look up"),
		),
		mcp.WithString("source",
			mcp.Description("Only consider elements extracted from this file"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleTool("readmi_show"))
	return nil
}

// registerRefsTool registers the readmi_refs tool
func (s *Server) registerRefsTool() error {
	tool := mcp.NewTool("readmi_refs",
		mcp.WithDescription(toolSchemaRegistry["readmi_refs"].Description),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Referenced type name"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleTool("readmi_refs"))
	return nil
}

// handleTool adapts CallTool to an MCP handler. Tool failures are reported
// as error results, not protocol errors.
func (s *Server) handleTool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(ctx, name, req.GetArguments())
		if err != nil {
			s.logger.Warn("tool call failed", "tool", name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(result), nil
	}
}

func (s *Server) executeExtract(ctx context.Context, path, format string) (string, error) {
	f := output.FormatJSON
	if format != "" {
		parsed, err := output.ParseFormat(format)
		if err != nil {
			return "", err
		}
		f = parsed
	}
	if !f.IsText() {
		return "", fmt.Errorf("%s is not available as a tool result", f)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	elements, err := s.extractor.ExtractFile(ctx, abs)
	if err != nil {
		return "", err
	}

	if err := s.store.Export(ctx, abs, elements); err != nil {
		return "", fmt.Errorf("record elements: %w", err)
	}

	formatter, err := output.GetFormatter(f, output.Options{Source: path, Indent: s.indent})
	if err != nil {
		return "", err
	}
	return formatter.Format(elements)
}

// shownElement is one readmi_show result.
type shownElement struct {
	Source  string          `json:"source"`
	Element json.RawMessage `json:"element"`
}

func (s *Server) executeShow(ctx context.Context, name, source string) (string, error) {
	rows, err := s.store.Lookup(ctx, name)
	if err != nil {
		return "", err
	}

	var matches []shownElement
	for _, r := range rows {
		if source != "" && !sameSource(r.Source, source) {
			continue
		}
		matches = append(matches, shownElement{Source: r.Source, Element: r.Data})
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no element named %q (run readmi_extract first)", name)
	}

	return toJSON(matches)
}

func (s *Server) executeRefs(ctx context.Context, name string) (string, error) {
	refs, err := s.store.Referrers(ctx, name)
	if err != nil {
		return "", err
	}
	if refs == nil {
		refs = []store.Referrer{}
	}

	type referrer struct {
		Source  string `json:"source"`
		Element string `json:"element"`
	}
	result := struct {
		Name      string     `json:"name"`
		Defined   bool       `json:"defined"`
		Referrers []referrer `json:"referrers"`
	}{Name: name, Referrers: make([]referrer, 0, len(refs))}

	for _, r := range refs {
		result.Referrers = append(result.Referrers, referrer{Source: r.Source, Element: r.Element})
	}

	rows, err := s.store.Lookup(ctx, name)
	if err != nil {
		return "", err
	}
	result.Defined = len(rows) > 0

	return toJSON(result)
}

// sameSource compares a recorded absolute source with a user-supplied path.
func sameSource(recorded, given string) bool {
	if recorded == given {
		return true
	}
	abs, err := filepath.Abs(given)
	return err == nil && abs == recorded
}

// Helper functions

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
