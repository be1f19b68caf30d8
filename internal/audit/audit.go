package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"popforge/internal/model"
	"popforge/internal/repository"
)

// Event kinds.
const (
	kindRequest  = "request"
	kindSecurity = "security"
	kindError    = "error"
)

// Logger is a pure sink for request outcomes and security-relevant events.
//
// Events are appended as JSON lines to api.log, security events additionally
// to security.log, and fanned out to an optional repository sink. Every
// write is best-effort: a failing sink never aborts the request path, so
// none of the Log methods return an error.
type Logger struct {
	api  io.Writer
	sec  io.Writer
	repo repository.AuditRepository
	now  func() time.Time

	closers []io.Closer
}

// NewLogger opens (creating if needed) api.log and security.log inside
// logsDir. repo may be nil to disable the database sink.
func NewLogger(logsDir string, repo repository.AuditRepository) (*Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	api, err := os.OpenFile(filepath.Join(logsDir, "api.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open api log: %w", err)
	}
	sec, err := os.OpenFile(filepath.Join(logsDir, "security.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		api.Close()
		return nil, fmt.Errorf("open security log: %w", err)
	}
	return &Logger{
		api:     api,
		sec:     sec,
		repo:    repo,
		now:     time.Now,
		closers: []io.Closer{api, sec},
	}, nil
}

// NewLoggerWithWriters builds a Logger over arbitrary writers, for tests.
func NewLoggerWithWriters(api, sec io.Writer, repo repository.AuditRepository) *Logger {
	return &Logger{api: api, sec: sec, repo: repo, now: time.Now}
}

// Close releases the underlying log files.
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogRequest records the outcome of a handled request.
func (l *Logger) LogRequest(eventType, subject, clientIP string, details map[string]string) {
	l.emit(&model.AuditEvent{
		Kind:      kindRequest,
		EventType: eventType,
		Subject:   subject,
		ClientIP:  clientIP,
		Details:   details,
	}, l.api)
}

// LogSecurityEvent records a security-relevant event such as a login
// attempt or a download token redemption.
func (l *Logger) LogSecurityEvent(eventType, subject, clientIP string, details map[string]string) {
	l.emit(&model.AuditEvent{
		Kind:      kindSecurity,
		EventType: eventType,
		Subject:   subject,
		ClientIP:  clientIP,
		Details:   details,
	}, l.api, l.sec)
}

// LogError records a system error with optional context. The full error
// text lands here and only here; callers send sanitized messages upstream.
func (l *Logger) LogError(err error, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	details["error"] = err.Error()
	l.emit(&model.AuditEvent{
		Kind:      kindError,
		EventType: "system_error",
		Details:   details,
	}, l.api)
}

func (l *Logger) emit(ev *model.AuditEvent, sinks ...io.Writer) {
	ev.ID = uuid.NewString()
	ev.Timestamp = l.now().UTC()

	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	line = append(line, '\n')
	for _, w := range sinks {
		if w != nil {
			_, _ = w.Write(line)
		}
	}

	if l.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.repo.Insert(ctx, ev)
	}
}
