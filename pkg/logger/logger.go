package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a config string to a level, falling back to INFO.
func ParseLevel(s string) LogLevel {
	lvl := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[lvl]; ok {
		return lvl
	}
	return LevelInfo
}

type LogFields map[string]interface{}

type Logger interface {
	WithFields(fields LogFields) Logger

	Debug(action, message string)
	Info(action, message string)
	Warn(action, message string)
	Error(action string, err error)
}

// Options configures a logger. Zero values log INFO and above to stdout.
type Options struct {
	Level LogLevel
	Out   io.Writer
}

// jsonLogger writes one JSON object per line.
type jsonLogger struct {
	mu         *sync.Mutex // shared by loggers derived through WithFields
	out        io.Writer
	level      LogLevel
	service    string
	hostname   string
	baseFields LogFields
}

type logEntry struct {
	Timestamp string   `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Service   string   `json:"service"`
	Action    string   `json:"action"`
	Message   string   `json:"message"`
	Hostname  string   `json:"hostname"`
	SessionID string   `json:"session_id,omitempty"`
	Screen    string   `json:"screen,omitempty"`

	Error *errorEntry `json:"error,omitempty"`

	Fields LogFields `json:"fields,omitempty"`
}

type errorEntry struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// NewLogger creates a JSON logger for a service writing INFO and above to stdout.
func NewLogger(serviceName string) Logger {
	return New(serviceName, Options{})
}

// New creates a JSON logger for a service.
func New(serviceName string, opts Options) Logger {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if _, ok := levelRank[opts.Level]; !ok {
		opts.Level = LevelInfo
	}

	return &jsonLogger{
		mu:         &sync.Mutex{},
		out:        opts.Out,
		level:      opts.Level,
		service:    serviceName,
		hostname:   host,
		baseFields: make(LogFields),
	}
}

// WithFields returns a logger carrying the receiver's fields plus fields.
// New keys win on conflict.
func (l *jsonLogger) WithFields(fields LogFields) Logger {
	merged := make(LogFields, len(l.baseFields)+len(fields))
	for k, v := range l.baseFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &jsonLogger{
		mu:         l.mu,
		out:        l.out,
		level:      l.level,
		service:    l.service,
		hostname:   l.hostname,
		baseFields: merged,
	}
}

func (l *jsonLogger) Debug(action, message string) {
	l.log(LevelDebug, action, message, nil)
}

func (l *jsonLogger) Info(action, message string) {
	l.log(LevelInfo, action, message, nil)
}

func (l *jsonLogger) Warn(action, message string) {
	l.log(LevelWarn, action, message, nil)
}

// Error logs err together with a trimmed stack trace of the caller.
func (l *jsonLogger) Error(action string, err error) {
	if err == nil {
		err = fmt.Errorf("%s: nil error", action)
	}
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	errData := &errorEntry{
		Msg:   err.Error(),
		Stack: cleanStack(string(buf[:n])),
	}
	l.log(LevelError, action, err.Error(), errData)
}

func (l *jsonLogger) log(level LogLevel, action, message string, errData *errorEntry) {
	if levelRank[level] < levelRank[l.level] {
		return
	}

	entry := &logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.service,
		Action:    action,
		Message:   message,
		Hostname:  l.hostname,
		Error:     errData,
		Fields:    make(LogFields),
	}

	for k, v := range l.baseFields {
		switch k {
		case "session_id":
			if id, ok := v.(string); ok {
				entry.SessionID = id
				continue
			}
		case "screen":
			if screen, ok := v.(string); ok {
				entry.Screen = screen
				continue
			}
		}
		entry.Fields[k] = v
	}
	if len(entry.Fields) == 0 {
		entry.Fields = nil
	}

	line, err := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal log: %v\n", err)
		fmt.Fprintf(l.out, "%s [%s] %s: %s\n", entry.Timestamp, entry.Level, entry.Action, entry.Message)
		return
	}
	fmt.Fprintln(l.out, string(line))
}

// cleanStack drops runtime, testing and logger frames from a goroutine dump.
func cleanStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var cleaned []string

	if len(lines) > 0 {
		cleaned = append(cleaned, lines[0])
	}

	for i := 1; i+1 < len(lines); i += 2 {
		funcName := lines[i]
		filePath := lines[i+1]

		if strings.HasPrefix(funcName, "runtime.") ||
			strings.HasPrefix(funcName, "testing.") ||
			strings.Contains(funcName, "logger.(*jsonLogger)") ||
			strings.Contains(filePath, "runtime/panic.go") {
			continue
		}

		cleaned = append(cleaned, funcName, "    "+strings.TrimSpace(filePath))
	}

	return strings.Join(cleaned, "\n")
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return New("nop", Options{Out: io.Discard, Level: LevelError})
}
