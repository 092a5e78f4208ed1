// Package eventsink writes a JSON-Lines transcript of a live agent
// invocation: one line per stream event, flushed as it's written so a
// tail -f shows progress in real time.
package eventsink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType names the discriminated StreamEvent variant, mirroring the
// `claude --output-format stream-json` wire shapes.
type EventType string

const (
	EventMessageStart       EventType = "message_start"
	EventContentBlockStart  EventType = "content_block_start"
	EventContentBlockDelta  EventType = "content_block_delta"
	EventContentBlockStop   EventType = "content_block_stop"
	EventMessageDelta       EventType = "message_delta"
	EventMessageStop        EventType = "message_stop"
	EventPing               EventType = "ping"
	EventErr                EventType = "error"
)

// StreamEvent is one line of the live transcript.
type StreamEvent struct {
	Type         EventType       `json:"type"`
	Index        *int            `json:"index,omitempty"`
	Message      *MessageInfo    `json:"message,omitempty"`
	ContentBlock *ContentBlock   `json:"content_block,omitempty"`
	Delta        *Delta          `json:"delta,omitempty"`
	Usage        *UsageInfo      `json:"usage,omitempty"`
	Error        *ErrorInfo      `json:"error,omitempty"`
	Timestamp    time.Time       `json:"ts"`
}

// MessageInfo is the payload of a message_start event.
type MessageInfo struct {
	ID    string `json:"id,omitempty"`
	Model string `json:"model,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ContentBlock is the payload of a content_block_start event: either a text
// block or a tool_use block.
type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Delta is the payload of a content_block_delta event: either a text delta
// or a partial tool-input-json delta.
type Delta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

// UsageInfo is the optional token-usage payload of a message_delta event.
type UsageInfo struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}

// ErrorInfo is the payload of an error event.
type ErrorInfo struct {
	Message string `json:"message"`
}

// LiveLogger appends StreamEvents to a per-invocation JSONL file. Safe for
// concurrent use by the supervisor's stdout reader goroutine.
type LiveLogger struct {
	mu      sync.Mutex
	file    *os.File
	logPath string
}

// New creates the live log file for one agent invocation at
// <projectRoot>/.autoflow/.debug/live/sprint-<sprintID>/<timestamp>_<agentName>.jsonl.
func New(projectRoot, agentName string, sprintID uint32, now time.Time) (*LiveLogger, error) {
	dir := filepath.Join(projectRoot, ".autoflow", ".debug", "live", fmt.Sprintf("sprint-%d", sprintID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("eventsink: creating log dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.jsonl", now.Format("20060102_150405"), agentName)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("eventsink: creating log file: %w", err)
	}

	return &LiveLogger{file: f, logPath: path}, nil
}

// Path returns the log file's path.
func (l *LiveLogger) Path() string {
	return l.logPath
}

// LogEvent serializes and appends one event, flushing immediately.
func (l *LiveLogger) LogEvent(event StreamEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("eventsink: marshaling event: %w", err)
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("eventsink: writing event: %w", err)
	}
	return l.file.Sync()
}

// LogText logs a raw text delta as a content_block_delta event — the
// common case of streaming an agent's token-by-token output.
func (l *LiveLogger) LogText(text string, now time.Time) error {
	return l.LogEvent(StreamEvent{
		Type:      EventContentBlockDelta,
		Delta:     &Delta{Type: "text_delta", Text: text},
		Timestamp: now,
	})
}

// LogAgentStart records the beginning of an invocation.
func (l *LiveLogger) LogAgentStart(agentName, model string, now time.Time) error {
	return l.LogEvent(StreamEvent{
		Type:      EventMessageStart,
		Message:   &MessageInfo{Model: model, Role: "assistant"},
		Timestamp: now,
	})
}

// LogAgentComplete records the end of an invocation.
func (l *LiveLogger) LogAgentComplete(success bool, now time.Time) error {
	if !success {
		return l.LogEvent(StreamEvent{
			Type:      EventErr,
			Error:     &ErrorInfo{Message: "agent invocation did not complete successfully"},
			Timestamp: now,
		})
	}
	return l.LogEvent(StreamEvent{Type: EventMessageStop, Timestamp: now})
}

// Close releases the underlying file handle.
func (l *LiveLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
