// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// FormatClock renders a number of seconds as an HH:MM:SS time-of-day string.
//
// Values outside a single day are clamped to 00:00:00..23:59:59 so the result is always a valid SQL TIME.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if last := 24*3600 - 1; seconds > last {
		seconds = last
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ParseClock parses an HH:MM:SS string produced by [FormatClock] back into seconds.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: malformed duration %q", ErrInvalidInput, s)
	}

	limits := [3]int{23, 59, 59}
	var fields [3]int
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("%w: malformed duration %q", ErrInvalidInput, s)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("%w: duration out of range %q", ErrInvalidInput, s)
		}
		fields[i] = v
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// QuoteSQL wraps s in single quotes, doubling any embedded single quote.
func QuoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// MarshalJSON encodes v, indenting with two spaces when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
