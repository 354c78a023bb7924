// Package logging provides config-driven categorized file-based logging for
// chatbrain. Logs are written to .chatbrain/logs/ with separate files per
// category. Logging is controlled by debug_mode in .chatbrain/config.yaml -
// when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category represents a log category/subsystem
type Category string

const (
	// CategoryBoot covers startup and engine wiring
	CategoryBoot Category = "boot"
	// CategoryBrain covers operation scheduling and the tick loop
	CategoryBrain Category = "brain"
	// CategoryDictionary covers lexicon inserts, indexing and matching
	CategoryDictionary Category = "dictionary"
	// CategoryConcept covers trigger-word registration and concept handlers
	CategoryConcept Category = "concept"
	// CategoryIntent covers combination enumeration and intent resolution
	CategoryIntent Category = "intent"
	// CategoryTask covers background task lifecycle
	CategoryTask Category = "task"
	// CategoryStore covers seed import and word persistence
	CategoryStore Category = "store"
	// CategorySpeech covers the Say boundary
	CategorySpeech Category = "speech"
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// configFile structure for reading .chatbrain/config.yaml
type configFile struct {
	Logging loggingConfig `yaml:"logging"`
}

// StructuredLogEntry is the JSON log record shape used when json_format is on.
type StructuredLogEntry struct {
	Timestamp int64          `json:"ts"` // Unix milliseconds
	Category  string         `json:"cat"`
	Level     string         `json:"lvl"`
	Message   string         `json:"msg"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers      = make(map[Category]*Logger)
	loggersMu    sync.RWMutex
	logsDir      string
	workspace    string
	config       loggingConfig
	configLoaded bool
	configMu     sync.RWMutex
	logLevel     int
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory and loads config.
// Should be called once at startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".chatbrain", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
		config.DebugMode = false
	}

	// Only create the logs directory when debug mode is on
	if !config.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	bootLogger := Get(CategoryBoot)
	bootLogger.Info("=== chatbrain Logging System Initialized ===")
	bootLogger.Info("Workspace: %s", workspace)
	bootLogger.Info("Logs directory: %s", logsDir)
	bootLogger.Info("Log level: %s", config.Level)

	return nil
}

// loadConfig reads the logging config from .chatbrain/config.yaml
func loadConfig() error {
	configMu.Lock()
	defer configMu.Unlock()

	configPath := filepath.Join(workspace, ".chatbrain", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config = production mode (no logging)
			config.DebugMode = false
			configLoaded = true
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	config = cf.Logging
	configLoaded = true

	switch config.Level {
	case "debug":
		logLevel = LevelDebug
	case "info":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}

	return nil
}

// ReloadConfig reloads the config from disk.
func ReloadConfig() error {
	return loadConfig()
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}

	if config.Categories == nil {
		return true
	}

	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	if logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation trivial
	date := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", date, category)
	logPath := filepath.Join(logsDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l

	return l
}

func (l *Logger) logJSON(level, msg string) {
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("%s", data)
}

// Debug logs a debug message (only if level <= debug)
func (l *Logger) Debug(format string, args ...any) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("debug", msg)
	} else {
		l.logger.Printf("[DEBUG] %s", msg)
	}
}

// Info logs an informational message (only if level <= info)
func (l *Logger) Info(format string, args ...any) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("info", msg)
	} else {
		l.logger.Printf("[INFO] %s", msg)
	}
}

// Warn logs a warning message (only if level <= warn)
func (l *Logger) Warn(format string, args ...any) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("warn", msg)
	} else {
		l.logger.Printf("[WARN] %s", msg)
	}
}

// Error logs an error message (always logged if logger exists)
func (l *Logger) Error(format string, args ...any) {
	if l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("error", msg)
	} else {
		l.logger.Printf("[ERROR] %s", msg)
	}
}

// CloseAll closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...any) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...any) {
	Get(CategoryBoot).Debug(format, args...)
}

// Brain logs to the brain category
func Brain(format string, args ...any) {
	Get(CategoryBrain).Info(format, args...)
}

// BrainDebug logs debug to the brain category
func BrainDebug(format string, args ...any) {
	Get(CategoryBrain).Debug(format, args...)
}

// Dictionary logs to the dictionary category
func Dictionary(format string, args ...any) {
	Get(CategoryDictionary).Info(format, args...)
}

// DictionaryDebug logs debug to the dictionary category
func DictionaryDebug(format string, args ...any) {
	Get(CategoryDictionary).Debug(format, args...)
}

// Concept logs to the concept category
func Concept(format string, args ...any) {
	Get(CategoryConcept).Info(format, args...)
}

// ConceptDebug logs debug to the concept category
func ConceptDebug(format string, args ...any) {
	Get(CategoryConcept).Debug(format, args...)
}

// Intent logs to the intent category
func Intent(format string, args ...any) {
	Get(CategoryIntent).Info(format, args...)
}

// IntentDebug logs debug to the intent category
func IntentDebug(format string, args ...any) {
	Get(CategoryIntent).Debug(format, args...)
}

// Task logs to the task category
func Task(format string, args ...any) {
	Get(CategoryTask).Info(format, args...)
}

// TaskDebug logs debug to the task category
func TaskDebug(format string, args ...any) {
	Get(CategoryTask).Debug(format, args...)
}

// Store logs to the store category
func Store(format string, args ...any) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...any) {
	Get(CategoryStore).Debug(format, args...)
}

// Speech logs to the speech category
func Speech(format string, args ...any) {
	Get(CategorySpeech).Info(format, args...)
}

// SpeechDebug logs debug to the speech category
func SpeechDebug(format string, args ...any) {
	Get(CategorySpeech).Debug(format, args...)
}

// =============================================================================
// PERFORMANCE TIMER
// =============================================================================

// Timer tracks elapsed time for an operation
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends timing and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning when the operation exceeded the threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
