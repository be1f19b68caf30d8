package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"popforge/internal/audit"
	"popforge/internal/download"
	"popforge/internal/genai"
	"popforge/internal/model"
	"popforge/internal/pdftext"
	"popforge/internal/storage"
	"popforge/internal/tex"
)

var ErrQuestionRequired = errors.New("question is required")

// GenerationService runs the full pipeline: optional PDF context extraction,
// persona-driven text generation, LaTeX extraction, compilation and download
// token issuance.
type GenerationService interface {
	// Generate produces a compiled SOP document for the given question.
	// pdfData may be nil; when present its extracted text becomes part of
	// the prompt context. subject is the authenticated caller identity the
	// resulting download token is bound to.
	Generate(ctx context.Context, subject, question string, pdfData []byte) (*model.GenerationResult, error)
}

// generationService is a concrete implementation of GenerationService.
// All collaborators are injected so the pipeline can run against stubs.
type generationService struct {
	generator genai.Generator
	pdf       pdftext.Extractor
	compiler  tex.Compiler
	tokens    *download.Manager
	archive   storage.Storage // nil disables archiving
	auditLog  *audit.Logger
	outputDir string
}

// NewGenerationService constructs a GenerationService.
func NewGenerationService(
	generator genai.Generator,
	pdf pdftext.Extractor,
	compiler tex.Compiler,
	tokens *download.Manager,
	archive storage.Storage,
	auditLog *audit.Logger,
	outputDir string,
) GenerationService {
	return &generationService{
		generator: generator,
		pdf:       pdf,
		compiler:  compiler,
		tokens:    tokens,
		archive:   archive,
		auditLog:  auditLog,
		outputDir: outputDir,
	}
}

func (s *generationService) Generate(ctx context.Context, subject, question string, pdfData []byte) (*model.GenerationResult, error) {
	if question == "" {
		return nil, ErrQuestionRequired
	}

	prompt, err := s.buildPrompt(ctx, question, pdfData)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	doc, err := tex.Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}

	// Each request compiles in its own working directory so concurrent
	// requests cannot race on the fixed source/artifact filenames.
	id := uuid.NewString()
	workDir := filepath.Join(s.outputDir, id)
	artifact, err := s.compiler.Compile(ctx, doc, workDir)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("compile: %w", err)
	}

	artifactName := id + ".pdf"
	finalPath := filepath.Join(s.outputDir, artifactName)
	if err := os.Rename(artifact, finalPath); err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("move artifact: %w", err)
	}
	os.RemoveAll(workDir)

	// The artifact must exist on disk before any token referencing it is issued.
	if _, err := os.Stat(finalPath); err != nil {
		return nil, fmt.Errorf("verify artifact: %w", err)
	}

	s.archiveArtifact(ctx, artifactName, finalPath)

	token := s.tokens.Issue(artifactName, subject)
	return &model.GenerationResult{
		Document:      doc,
		ArtifactName:  artifactName,
		DownloadToken: token,
	}, nil
}

// buildPrompt assembles the persona, the optional PDF context and the
// question. A PDF turns the request into a revision of the uploaded
// document rather than a fresh one.
func (s *generationService) buildPrompt(ctx context.Context, question string, pdfData []byte) (string, error) {
	if len(pdfData) == 0 {
		return fmt.Sprintf("%s\n\nQuestion: %s", genai.PersonaPrompt, question), nil
	}

	pdfText, err := s.pdf.ExtractText(ctx, pdfData)
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return fmt.Sprintf(
		"%s\n\nAnalyze the following existing SOP and apply the requested changes.\n\nCurrent SOP:\n%s\n\nRequested changes:\n%s",
		genai.PersonaPrompt, pdfText, question,
	), nil
}

// archiveArtifact copies the artifact to object storage when an archive is
// configured. Failures are logged and swallowed: archival never blocks a
// response.
func (s *generationService) archiveArtifact(ctx context.Context, name, path string) {
	if s.archive == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.auditLog.LogError(err, map[string]string{"stage": "archive", "artifact": name})
		return
	}
	key := filepath.ToSlash(filepath.Join("artifacts", name))
	_, err = s.archive.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/pdf",
	})
	if err != nil {
		s.auditLog.LogError(err, map[string]string{"stage": "archive", "artifact": name})
	}
}
