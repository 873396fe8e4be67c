package safety

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/config"
	"github.com/natefinch/lumberjack"
)

// ErrNilWriter is returned by AuditLogger.Log when the logger was constructed
// with a nil writer.
var ErrNilWriter = errors.New("audit logger: writer is nil")

// redacted replaces credential values in audited params.
const redacted = "[REDACTED]"

// AuditEntry captures a single tool invocation for the audit log.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Tool      string         `json:"tool"`
	Params    map[string]any `json:"params"`
	Result    string         `json:"result"`
	Duration  time.Duration  `json:"duration_ns"`
}

// AuditLogger writes AuditEntry records as newline-delimited JSON to an
// io.Writer. Credential params (jwt, tokens) are redacted before writing.
// It is safe for concurrent use.
type AuditLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewAuditLogger returns an AuditLogger that writes to w. If w is nil the
// returned logger is also nil; callers must check for nil before use.
func NewAuditLogger(w io.Writer) *AuditLogger {
	if w == nil {
		return nil
	}
	return &AuditLogger{w: w}
}

// NewRotatingAuditLogger returns an AuditLogger writing to cfg.LogPath,
// rotated by size (MaxSizeMB) and keeping MaxBackups compressed files. The
// returned closer must be closed on shutdown.
func NewRotatingAuditLogger(cfg config.AuditConfig) (*AuditLogger, io.Closer) {
	writer := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	return NewAuditLogger(writer), writer
}

// Log serialises entry as a single JSON line and writes it to the underlying
// writer. It returns an error if the writer is nil or if serialisation or
// writing fails.
func (l *AuditLogger) Log(entry AuditEntry) error {
	if l == nil || l.w == nil {
		return ErrNilWriter
	}

	entry.Params = RedactParams(entry.Params)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	_, err = l.w.Write(data)
	l.mu.Unlock()

	return err
}

// RedactParams returns a copy of params with credential values replaced.
// A key is treated as a credential when it is "jwt" or ends in "token"
// (case-insensitive). Nested maps and lists are redacted too. Empty values
// are left as they are.
func RedactParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if isCredentialKey(k) {
			if s, ok := v.(string); !ok || s != "" {
				v = redacted
			}
		} else {
			v = redactValue(v)
		}
		out[k] = v
	}
	return out
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return RedactParams(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redactValue(item)
		}
		return out
	default:
		return v
	}
}

func isCredentialKey(key string) bool {
	k := strings.ToLower(key)
	return k == "jwt" || strings.HasSuffix(k, "token")
}
