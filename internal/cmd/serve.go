package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bigmistqke/readmi/internal/config"
	"github.com/bigmistqke/readmi/internal/mcp"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

Agents extract files with readmi_extract and then browse the recorded
elements without re-parsing. Extracted elements are kept in a SQLite export
database, .readmi/readmi.db by default.

Available Tools:
  readmi_extract   Extract a file and record its elements
  readmi_show      Show a recorded element by name
  readmi_refs      List elements referencing a type name

Examples:
  readmi serve                          # Start with all tools
  readmi serve --tools extract,show     # Start with specific tools only
  readmi serve --timeout 30m            # Auto-stop after 30 minutes idle
  readmi serve --status                 # Check if server is running
  readmi serve --stop                   # Stop running server
  readmi serve --list-tools             # Show available tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveDB        string
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveDB, "db", "", "Export database path (default: .readmi/readmi.db)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveListTools {
		fmt.Fprintln(out, "Available MCP tools:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  readmi_extract   Extract a file and record its elements")
		fmt.Fprintln(out, "  readmi_show      Show a recorded element by name")
		fmt.Fprintln(out, "  readmi_refs      List elements referencing a type name")
		return nil
	}

	if serveStatus {
		return checkServerStatus(out)
	}

	if serveStop {
		return stopServer(out)
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	dbPath := serveDB
	if dbPath == "" {
		configDir, err := config.EnsureConfigDir(".")
		if err != nil {
			return err
		}
		dbPath = filepath.Join(configDir, "readmi.db")
	}

	server, err := mcp.New(mcp.Config{
		DBPath:    dbPath,
		Extractor: newExtractor(cfg, logger),
		Logger:    logger,
		Indent:    cfg.Output.Indent,
		Tools:     parseTools(serveTools),
		Timeout:   timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := writePIDFile(); err != nil {
		logger.Warn("could not write PID file", "error", err)
	}
	defer removePIDFile()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		server.Close()
		removePIDFile()
		os.Exit(0)
	}()

	// stdout carries the MCP protocol
	logger.Info("starting MCP server", "tools", server.ListTools(), "db", dbPath, "timeout", timeout)

	return server.ServeStdio()
}

// parseTools splits a --tools value, accepting shorthand names (show -> readmi_show).
func parseTools(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "readmi_") {
			t = "readmi_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	configDir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

// readPID returns the PID recorded by a running server.
func readPID() (int, bool) {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return 0, false
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return 0, false
	}
	return pid, true
}

func checkServerStatus(out io.Writer) error {
	pid, ok := readPID()
	if !ok {
		fmt.Fprintln(out, "Status: not running")
		return nil
	}

	// On Unix, FindProcess always succeeds, so send signal 0 to check
	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.Signal(0))
	}
	if err != nil {
		fmt.Fprintln(out, "Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Fprintf(out, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(out io.Writer) error {
	pid, ok := readPID()
	if !ok {
		fmt.Fprintln(out, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.SIGTERM)
	}
	if err != nil {
		removePIDFile()
		fmt.Fprintln(out, "Server already stopped")
		return nil
	}

	fmt.Fprintf(out, "Stopped server (PID %d)\n", pid)
	return nil
}
