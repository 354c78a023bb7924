// Transcript logging records the conversational exchange as structured JSONL
// events: what came in, what matched, what the engine resolved, and what went
// back out. Unlike category logs, the transcript is a single append-only file
// per session, intended for offline inspection of resolution quality.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptEventType labels one step of an exchange.
type TranscriptEventType string

const (
	TranscriptInput          TranscriptEventType = "input_received"
	TranscriptTokensMatched  TranscriptEventType = "tokens_matched"
	TranscriptIntentResolved TranscriptEventType = "intent_resolved"
	TranscriptResponse       TranscriptEventType = "response_sent"
	TranscriptOperationError TranscriptEventType = "operation_error"
)

// TranscriptEvent is a single JSONL record.
type TranscriptEvent struct {
	Timestamp int64               `json:"ts"`
	Type      TranscriptEventType `json:"type"`
	Text      string              `json:"text,omitempty"`
	Tokens    int                 `json:"tokens,omitempty"`
	Matches   int                 `json:"matches,omitempty"`
	Score     float64             `json:"score,omitempty"`
	Detail    string              `json:"detail,omitempty"`
}

type transcriptWriter struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
}

var transcript transcriptWriter

// InitTranscript opens the transcript file under the workspace logs dir.
// A no-op when debug mode is off.
func InitTranscript() error {
	if !IsDebugMode() || logsDir == "" {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	name := fmt.Sprintf("transcript_%s.jsonl", time.Now().Format("2006-01-02_150405"))
	path := filepath.Join(logsDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transcript file: %w", err)
	}

	transcript.mu.Lock()
	defer transcript.mu.Unlock()
	if transcript.file != nil {
		transcript.file.Close()
	}
	transcript.file = file
	transcript.enabled = true
	return nil
}

// RecordTranscript appends one event. Safe to call before InitTranscript.
func RecordTranscript(ev TranscriptEvent) {
	transcript.mu.Lock()
	defer transcript.mu.Unlock()

	if !transcript.enabled || transcript.file == nil {
		return
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	transcript.file.Write(append(data, '\n'))
}

// CloseTranscript closes the transcript file (call at shutdown).
func CloseTranscript() {
	transcript.mu.Lock()
	defer transcript.mu.Unlock()
	if transcript.file != nil {
		transcript.file.Close()
		transcript.file = nil
	}
	transcript.enabled = false
}
