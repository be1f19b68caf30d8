package tex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"popforge/internal/config"
)

const (
	sourceFilename   = "document.tex"
	artifactFilename = "document.pdf"
)

var (
	// ErrConfigMissing means no toolchain binary path is configured.
	ErrConfigMissing = errors.New("pdflatex path is not configured")
	// ErrToolchainNotFound means the configured binary path does not resolve.
	ErrToolchainNotFound = errors.New("pdflatex binary not found")
	// ErrCompileFailed means the toolchain ran and did not produce an artifact.
	ErrCompileFailed = errors.New("latex compilation failed")
)

// Compiler turns LaTeX source into a PDF artifact inside a working directory.
type Compiler interface {
	Compile(ctx context.Context, source, workDir string) (string, error)
}

// PdflatexCompiler invokes an external pdflatex binary as a subprocess.
// Callers must pass a working directory that is not shared between
// concurrent requests: the source and artifact filenames are fixed.
type PdflatexCompiler struct {
	binPath string
	timeout time.Duration
}

// NewPdflatexCompiler constructs a compiler from toolchain configuration.
func NewPdflatexCompiler(cfg config.LatexConfig) *PdflatexCompiler {
	return &PdflatexCompiler{binPath: cfg.PdflatexPath, timeout: cfg.Timeout}
}

var _ Compiler = (*PdflatexCompiler)(nil)

// Compile writes the source into workDir and runs pdflatex over it.
//
// The subprocess runs with -interaction=nonstopmode so it never blocks
// waiting for operator input, is bounded by the configured timeout, and is
// killed if the context is cancelled. Captured toolchain output goes into
// the returned error only; it is never surfaced to HTTP callers.
func (p *PdflatexCompiler) Compile(ctx context.Context, source, workDir string) (string, error) {
	if p.binPath == "" {
		return "", ErrConfigMissing
	}
	if _, err := exec.LookPath(p.binPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolchainNotFound, p.binPath)
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	srcPath := filepath.Join(workDir, sourceFilename)
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		return "", fmt.Errorf("write source file: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-interaction=nonstopmode", sourceFilename)
	cmd.Dir = workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %v", ErrCompileFailed, ctxErr)
		}
		return "", fmt.Errorf("%w: %v: %s", ErrCompileFailed, err, tail(out, 512))
	}

	artifact := filepath.Join(workDir, artifactFilename)
	if _, err := os.Stat(artifact); err != nil {
		return "", fmt.Errorf("%w: toolchain exited cleanly but produced no %s", ErrCompileFailed, artifactFilename)
	}
	return artifact, nil
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
