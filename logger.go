package roomservice

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SessionLogger is the interface for remediation session logging.
type SessionLogger interface {
	LogRound(round RoundLog) error
}

// NewSessionLogFilePath returns a file path keyed by room number so logs from
// concurrent guest sessions stay apart.
func NewSessionLogFilePath(room string) string {
	return fmt.Sprintf(
		"./logs/%d.room-%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.TrimSpace(room), " ", "_"),
	)
}

// RoundLog captures a single round of the validate/offer/apply loop.
type RoundLog struct {
	Round      int        `json:"round"`
	Timestamp  time.Time  `json:"timestamp"`
	State      string     `json:"state"`
	Revision   int        `json:"revision"`
	Violations any        `json:"violations,omitempty"`
	Offers     any        `json:"offers,omitempty"`
	Choice     *ChoiceLog `json:"choice,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ChoiceLog records the remediation option a guest picked.
type ChoiceLog struct {
	ItemIndex int    `json:"item_index"`
	Kind      string `json:"kind"`
	Target    string `json:"target,omitempty"`
}

// FileSessionLogger logs to a file, accumulating rounds and flushing at the end.
type FileSessionLogger struct {
	rounds []RoundLog
	writer io.Writer
}

// NewFileSessionLogger creates a new file-based session logger.
func NewFileSessionLogger(writer io.Writer) *FileSessionLogger {
	return &FileSessionLogger{
		rounds: make([]RoundLog, 0),
		writer: writer,
	}
}

// LogRound buffers a round (does not flush immediately).
func (l *FileSessionLogger) LogRound(round RoundLog) error {
	l.rounds = append(l.rounds, round)
	return nil
}

// Flush writes all accumulated rounds to the writer.
func (l *FileSessionLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"remediation_session": map[string]any{
			"timestamp": time.Now(),
			"rounds":    l.rounds,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}

	l.rounds = l.rounds[:0]
	return nil
}

// NoOpSessionLogger discards all log entries.
type NoOpSessionLogger struct{}

// NewNoOpSessionLogger creates a new no-op session logger.
func NewNoOpSessionLogger() *NoOpSessionLogger {
	return &NoOpSessionLogger{}
}

// LogRound discards the round log (no-op).
func (l *NoOpSessionLogger) LogRound(round RoundLog) error {
	return nil
}

// StdoutSessionLogger logs each round as a JSON line to stdout (for Lambda/CloudWatch).
type StdoutSessionLogger struct{}

// NewStdoutSessionLogger creates a new stdout-based session logger.
func NewStdoutSessionLogger() *StdoutSessionLogger {
	return &StdoutSessionLogger{}
}

// LogRound writes the round as a JSON line to os.Stdout.
func (l *StdoutSessionLogger) LogRound(round RoundLog) error {
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
