package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// DebugLevel logs debug messages
	DebugLevel LogLevel = iota
	// InfoLevel logs info messages
	InfoLevel
	// WarnLevel logs warning messages
	WarnLevel
	// ErrorLevel logs error messages
	ErrorLevel
)

// String returns string representation of log level
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a log level from string
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LogFormat represents the output format
type LogFormat int

const (
	// JSONFormat outputs logs in JSON format
	JSONFormat LogFormat = iota
	// TextFormat outputs logs in human-readable text format
	TextFormat
)

// ParseLogFormat parses an output format from string
func ParseLogFormat(format string) LogFormat {
	if strings.EqualFold(format, "text") {
		return TextFormat
	}
	return JSONFormat
}

// Logger is a structured logger for the sync service
type Logger struct {
	level   LogLevel
	format  LogFormat
	output  io.Writer
	fields  map[string]interface{}
	service string
	mu      *sync.Mutex
}

// Config represents logger configuration
type Config struct {
	Level   LogLevel  `yaml:"level"`
	Format  LogFormat `yaml:"format"`
	Output  io.Writer `yaml:"-"`
	Service string    `yaml:"service"`
}

// logEntry is the serialized form of a single log line
type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Service   string                 `json:"service,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// New creates a new structured logger
func New(config *Config) *Logger {
	if config == nil {
		config = &Config{Level: InfoLevel, Format: JSONFormat}
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	return &Logger{
		level:   config.Level,
		format:  config.Format,
		output:  config.Output,
		fields:  make(map[string]interface{}),
		service: config.Service,
		mu:      &sync.Mutex{},
	}
}

// NewDefault creates a JSON logger at info level for the given service
func NewDefault(service string) *Logger {
	return New(&Config{
		Level:   InfoLevel,
		Format:  JSONFormat,
		Output:  os.Stdout,
		Service: service,
	})
}

// Nop returns a logger that discards everything, for use in tests
func Nop() *Logger {
	return New(&Config{Level: ErrorLevel + 1, Output: io.Discard})
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		level:   l.level,
		format:  l.format,
		output:  l.output,
		fields:  fields,
		service: l.service,
		mu:      l.mu,
	}
}

// WithFields creates a new logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		level:   l.level,
		format:  l.format,
		output:  l.output,
		fields:  merged,
		service: l.service,
		mu:      l.mu,
	}
}

// WithError creates a new logger carrying the error as a field
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// Debug logs a debug message
func (l *Logger) Debug(message string, args ...interface{}) {
	l.log(DebugLevel, message, args...)
}

// Info logs an info message
func (l *Logger) Info(message string, args ...interface{}) {
	l.log(InfoLevel, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, args ...interface{}) {
	l.log(WarnLevel, message, args...)
}

// Error logs an error message
func (l *Logger) Error(message string, args ...interface{}) {
	l.log(ErrorLevel, message, args...)
}

func (l *Logger) log(level LogLevel, message string, args ...interface{}) {
	if level < l.level {
		return
	}

	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}

	entry := &logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   message,
		Service:   l.service,
	}
	if len(l.fields) > 0 {
		entry.Fields = l.fields
	}

	l.write(entry)
}

func (l *Logger) write(entry *logEntry) {
	var line string

	switch l.format {
	case TextFormat:
		line = l.formatText(entry)
	default:
		data, err := json.Marshal(entry)
		if err != nil {
			// Fall back to plain text when a field fails to marshal
			line = fmt.Sprintf("%s [%s] %s\n", entry.Timestamp, entry.Level, entry.Message)
		} else {
			line = string(data) + "\n"
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

func (l *Logger) formatText(entry *logEntry) string {
	var b strings.Builder
	b.WriteString(entry.Timestamp)
	b.WriteString(" [")
	b.WriteString(entry.Level)
	b.WriteString("] ")
	b.WriteString(entry.Message)

	for k, v := range entry.Fields {
		b.WriteString(fmt.Sprintf(" %s=%v", k, v))
	}
	b.WriteString("\n")

	return b.String()
}
