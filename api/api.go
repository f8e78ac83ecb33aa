// Package api serves spreadsheet comparisons over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TFMV/sheetdiff/pipeline"
	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/TFMV/sheetdiff/report"
	"github.com/TFMV/sheetdiff/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// defaultBodyLimit caps uploads of both files together.
const defaultBodyLimit = 64 << 20

// ServerOptions configures the server.
type ServerOptions struct {
	Port int

	// BodyLimit is the maximum request size in bytes; zero uses 64 MiB.
	BodyLimit int

	// AccessLog receives one line per request; nil disables request logging.
	AccessLog io.Writer

	Log *zap.Logger
}

// Server holds the Fiber app instance
type Server struct {
	app  *fiber.App
	port int
	log  *zap.Logger
}

// DiffResponse is the body of a successful POST /diff.
type DiffResponse struct {
	FileA      string           `json:"file_a"`
	FileB      string           `json:"file_b"`
	KeyColumns []string         `json:"key_columns"`
	ColumnsA   []string         `json:"columns_a"`
	ColumnsB   []string         `json:"columns_b"`
	Summary    core.DiffSummary `json:"summary"`
	Warnings   []string         `json:"warnings"`
	Sections   []core.Section   `json:"sections"`
}

// NewServer initializes a new Fiber instance
func NewServer(opts ServerOptions) *Server {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = defaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		IdleTimeout:           10 * time.Second,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: opts.AccessLog}))
	}

	s := &Server{app: app, port: opts.Port, log: opts.Log}

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "sheetdiff API",
			"version": version.Version,
			"build":   version.BuildDate,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Post("/diff", s.handleDiff)

	return s
}

// GetApp returns the Fiber app, for tests.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Start runs the server until ctx is done, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	port := s.port
	if port == 0 {
		port = 8080
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("sheetdiff API is running", zap.Int("port", port))
		errCh <- s.app.Listen(":" + strconv.Itoa(port))
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("received shutdown signal, stopping server")

	// Create a timeout context for the shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down: %w", err)
	}

	s.log.Info("server shutdown successfully")
	return nil
}

// Shutdown stops the server, waiting for active requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleDiff(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "expected a multipart form with file_a and file_b")
	}

	dir, err := os.MkdirTemp("", "sheetdiff-*")
	if err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	defer os.RemoveAll(dir)

	names := make(map[string]string, 2)
	paths := make(map[string]string, 2)
	for _, field := range []string{"file_a", "file_b"} {
		files := form.File[field]
		if len(files) != 1 {
			return badRequest(c, "exactly one %s upload is required", field)
		}
		fh := files[0]
		path := filepath.Join(dir, field+strings.ToLower(filepath.Ext(fh.Filename)))
		if err := c.SaveFile(fh, path); err != nil {
			return fmt.Errorf("failed to store %s: %w", field, err)
		}
		names[path] = fh.Filename
		paths[field] = path
	}

	strict := false
	if v := c.FormValue("strict_empty"); v != "" {
		if strict, err = strconv.ParseBool(v); err != nil {
			return badRequest(c, "strict_empty must be a boolean, got %q", v)
		}
	}

	outcome, err := pipeline.Run(c.UserContext(), pipeline.Request{
		PathA: paths["file_a"],
		PathB: paths["file_b"],
		Sheet: c.FormValue("sheet"),
		Options: core.DiffOptions{
			KeyColumns:    splitList(form.Value["key"]),
			IgnoreColumns: splitList(form.Value["ignore"]),
			StrictEmpty:   strict,
		},
	}, s.log)

	var keyErr *core.KeyColumnNotFoundError
	switch {
	case errors.As(err, &keyErr):
		named := *keyErr
		named.Source = names[keyErr.Source]
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": named.Error()})
	case err != nil:
		s.log.Warn("diff request failed", zap.Error(err))
		return badRequest(c, "%s", strings.ReplaceAll(err.Error(), dir+string(filepath.Separator), ""))
	}

	result := outcome.Result
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(DiffResponse{
		FileA:      names[paths["file_a"]],
		FileB:      names[paths["file_b"]],
		KeyColumns: result.KeyColumns,
		ColumnsA:   outcome.TableA.Columns,
		ColumnsB:   outcome.TableB.Columns,
		Summary:    result.Summary,
		Warnings:   warnings,
		Sections:   report.Sections(result),
	})
}

func badRequest(c *fiber.Ctx, format string, a ...any) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf(format, a...)})
}

// splitList flattens repeated and comma separated form values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
