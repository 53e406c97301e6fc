// Package logging provides the leveled logger handed to handlers and jobs
// through common.WithLogger.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// Logger writes leveled lines with key=value metadata (text) or one JSON
// object per line (json). Implements common.ContainerLogger.
type Logger struct {
	out    *log.Logger
	min    int
	json   bool
	fields map[string]interface{}
	closer io.Closer

	// per-component minimum levels, consulted by Component
	overrides map[string]int
}

// New builds a logger from configuration, opening the log file if needed
func New(cfg *config.LoggingConfig) (*Logger, error) {
	var w io.Writer
	var closer io.Closer

	switch cfg.Output {
	case "stderr":
		w = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		w = os.Stdout
	}

	l := NewWithWriter(w, cfg.Level, cfg.Format)
	l.closer = closer
	for name, level := range cfg.Components {
		l.SetComponentLevel(name, level)
	}
	return l, nil
}

// NewWithWriter builds a logger over an arbitrary writer
func NewWithWriter(w io.Writer, level, format string) *Logger {
	asJSON := strings.EqualFold(format, "json")
	flags := log.LstdFlags
	if asJSON {
		flags = 0
	}
	return &Logger{
		out:  log.New(w, "", flags),
		min:  rank(level),
		json: asJSON,
	}
}

// With returns a child logger that adds fields to every line
func (l *Logger) With(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	child := *l
	child.fields = merged
	child.closer = nil
	return &child
}

// SetComponentLevel overrides the minimum level for loggers later derived
// with Component(name)
func (l *Logger) SetComponentLevel(name, level string) {
	if l.overrides == nil {
		l.overrides = make(map[string]int)
	}
	l.overrides[name] = rank(level)
}

// Component returns a child logger tagged component=name, filtered at the
// component's override level when one is configured
func (l *Logger) Component(name string) *Logger {
	child := l.With(map[string]interface{}{"component": name})
	if min, ok := l.overrides[name]; ok {
		child.min = min
	}
	return child
}

// Log implements common.ContainerLogger
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	if rank(level) < l.min {
		return
	}

	fields := make(map[string]interface{}, len(l.fields)+len(metadata))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range metadata {
		fields[k] = v
	}

	if l.json {
		l.out.Print(l.encodeJSON(level, message, fields))
		return
	}
	l.out.Print(encodeText(level, message, fields))
}

func (l *Logger) Debug(message string, metadata map[string]interface{}) {
	l.Log("DEBUG", message, metadata)
}

func (l *Logger) Info(message string, metadata map[string]interface{}) {
	l.Log("INFO", message, metadata)
}

func (l *Logger) Warn(message string, metadata map[string]interface{}) {
	l.Log("WARN", message, metadata)
}

func (l *Logger) Error(message string, metadata map[string]interface{}) {
	l.Log("ERROR", message, metadata)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) encodeJSON(level, message string, fields map[string]interface{}) string {
	record := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		record[k] = v
	}
	record["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	record["level"] = level
	record["msg"] = message

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprintf(`{"level":%q,"msg":%q,"log_error":%q}`, level, message, err.Error())
	}
	return string(data)
}

func encodeText(level, message string, fields map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := fmt.Sprint(fields[k])
		if strings.ContainsAny(value, " \t\"") {
			value = fmt.Sprintf("%q", value)
		}
		fmt.Fprintf(&b, " %s=%s", k, value)
	}
	return b.String()
}

func rank(level string) int {
	if r, ok := levelRank[strings.ToUpper(level)]; ok {
		return r
	}
	return levelRank["INFO"]
}
