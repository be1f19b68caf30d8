package handler

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"popforge/internal/audit"
	"popforge/internal/auth"
	"popforge/internal/download"
	"popforge/internal/http/middleware"
	"popforge/internal/service"
)

// Deps carries everything the HTTP routes need. All collaborators are
// injected; handlers stay free of business logic.
type Deps struct {
	DB        *sql.DB // nil when the audit database sink is disabled
	Issuer    *auth.Issuer
	Service   service.GenerationService
	Tokens    *download.Manager
	Audit     *audit.Logger
	OutputDir string
}

// openAPISpec is compiled into the binary so /openapi.yaml does not depend
// on the process working directory.
//
//go:embed openapi.yaml
var openAPISpec []byte

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(openAPISpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/", Root())
	app.Get("/healthz", LivenessProbe())
	app.Get("/health", HealthCheck(deps.DB))

	app.Post("/token", IssueToken(deps.Issuer, deps.Audit))
	app.Post("/chat_with_pdf/", middleware.RequireBearer(deps.Issuer), ChatWithPDF(deps.Service, deps.Audit))
	app.Get("/secure_download/:token", SecureDownload(deps.Tokens, deps.OutputDir, deps.Audit))
}

// Root is the plain liveness probe at the API root.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// LivenessProbe is a bare 200 for orchestration probes.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// HealthCheck reports dependency health. With no database configured there
// is nothing to check beyond the process being up.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// IssueToken exchanges the fixed credential pair for a bearer access token.
func IssueToken(issuer *auth.Issuer, auditLog *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}

		token, err := issuer.IssueToken(req.Username, req.Password)
		if err != nil {
			auditLog.LogSecurityEvent("login_failed", req.Username, c.IP(), nil)
			// One message for any mismatch: do not reveal which field was wrong.
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		}

		auditLog.LogSecurityEvent("login_success", req.Username, c.IP(), nil)
		return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

type chatResponse struct {
	Response string `json:"response"`
	PDFPath  string `json:"pdf_path"`
}

// ChatWithPDF runs the generation pipeline: question (+ optional uploaded
// PDF) in, generated document text and a single-use redemption URL out.
// Any pipeline failure collapses to one opaque 500; full detail goes to the
// audit log only.
func ChatWithPDF(svc service.GenerationService, auditLog *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, _ := c.Locals(middleware.SubjectLocalKey).(string)

		question := c.FormValue("question")
		if question == "" {
			return writeError(c, fiber.StatusBadRequest, "QUESTION_REQUIRED", "question is required")
		}

		var pdfData []byte
		if fh, err := c.FormFile("pdf_file"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			pdfData, err = io.ReadAll(f)
			f.Close()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}
		}

		res, err := svc.Generate(c.UserContext(), subject, question, pdfData)
		if err != nil {
			auditLog.LogError(err, map[string]string{
				"endpoint":   "/chat_with_pdf/",
				"subject":    subject,
				"request_id": requestIDFromCtx(c),
			})
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "processing failed")
		}

		auditLog.LogRequest("generation_succeeded", subject, c.IP(), map[string]string{
			"artifact": res.ArtifactName,
		})
		return c.JSON(chatResponse{
			Response: res.Document,
			PDFPath:  c.BaseURL() + "/secure_download/" + res.DownloadToken,
		})
	}
}

// SecureDownload redeems a single-use download token and streams the bound
// artifact. Redemption consumes the token whether or not the stream
// ultimately succeeds.
func SecureDownload(tokens *download.Manager, outputDir string, auditLog *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")

		filename, subject, ok := tokens.Redeem(token)
		if !ok {
			auditLog.LogSecurityEvent("download_token_rejected", "", c.IP(), nil)
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "invalid or expired download token")
		}

		// Filenames are generated server-side, but never trust a stored
		// name enough to leave the output directory.
		path := filepath.Join(outputDir, filepath.Base(filename))
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				auditLog.LogError(err, map[string]string{"artifact": filename, "stage": "download"})
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "artifact not found")
			}
			auditLog.LogError(err, map[string]string{"artifact": filename, "stage": "download"})
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		auditLog.LogSecurityEvent("download_token_redeemed", subject, c.IP(), map[string]string{
			"artifact": filename,
		})
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Download(path, filename)
	}
}
