package texcompile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

const defaultTimeout = 120 * time.Second

// Oracle is the compiler capability the promotion gate consumes.
// Tests substitute a stub; production wiring uses CLI.
type Oracle interface {
	// Compile attempts to build the template source and returns diagnostics
	// on failure via CompilationError.
	Compile(ctx context.Context, templateName string, source []byte) error
}

// CompilationError carries the compiler's diagnostics for a failed template.
type CompilationError struct {
	Template    string
	Diagnostics []string
}

func (e *CompilationError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("template %s failed to compile", e.Template)
	}
	return fmt.Sprintf("template %s failed to compile: %s", e.Template, strings.Join(e.Diagnostics, "; "))
}

// Option configures the CLI oracle.
type Option func(*CLI)

// WithBinary overrides the default compiler binary.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds a single compile invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI runs a tectonic-compatible LaTeX compiler against template source.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a compiler oracle using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "tectonic", timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Compile writes the source to a scratch directory, invokes the compiler, and
// converts a non-zero exit into a CompilationError with the error lines from
// the compiler log attached.
func (c *CLI) Compile(ctx context.Context, templateName string, source []byte) error {
	if strings.TrimSpace(templateName) == "" {
		return errors.New("texcompile: template name required")
	}
	if len(bytes.TrimSpace(source)) == 0 {
		return &CompilationError{Template: templateName, Diagnostics: []string{"template source is empty"}}
	}

	workDir, err := os.MkdirTemp("", "imprint-texcompile-*")
	if err != nil {
		return fmt.Errorf("texcompile: scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	sourcePath := filepath.Join(workDir, templateName+".tex")
	if err := os.WriteFile(sourcePath, source, 0o644); err != nil {
		return fmt.Errorf("texcompile: write source: %w", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := commandContext(runCtx, c.binary, "--chatter", "minimal", "--outdir", workDir, sourcePath) //nolint:gosec
	output, runErr := cmd.CombinedOutput()
	if runErr == nil {
		return nil
	}
	if runCtx.Err() != nil {
		return fmt.Errorf("texcompile: %s timed out after %s: %w", templateName, c.timeout, runCtx.Err())
	}
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return fmt.Errorf("texcompile: run %s: %w", c.binary, runErr)
	}
	return &CompilationError{
		Template:    templateName,
		Diagnostics: extractDiagnostics(output),
	}
}

// extractDiagnostics pulls the "! ..." and "error:" lines out of compiler
// output, falling back to the last few lines when no marker matches.
func extractDiagnostics(output []byte) []string {
	var diagnostics []string
	var tail []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > 5 {
			tail = tail[1:]
		}
		if strings.HasPrefix(line, "! ") || strings.Contains(strings.ToLower(line), "error:") {
			diagnostics = append(diagnostics, line)
		}
	}
	if len(diagnostics) == 0 {
		diagnostics = tail
	}
	return diagnostics
}
