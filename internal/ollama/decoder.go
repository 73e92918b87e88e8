package ollama

import (
	"bytes"
	"io"
	"log"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/kdduha/caption-generator/backend/internal/models"
)

// Decoder reduces a newline-delimited JSON stream into one text.
// Raw chunks may split lines anywhere; Feed keeps the incomplete tail
// pending until the next chunk completes it.
type Decoder struct {
	logger    *log.Logger
	pending   []byte
	text      strings.Builder
	done      bool
	lines     int
	malformed int
}

// NewDecoder returns an empty Decoder that logs malformed lines to logger.
func NewDecoder(logger *log.Logger) *Decoder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Decoder{logger: logger}
}

// Feed folds the next raw chunk in and returns the chunks parsed from the
// lines it completed, in arrival order.
func (d *Decoder) Feed(chunk []byte) []models.StreamChunk {
	d.pending = append(d.pending, chunk...)

	var parsed []models.StreamChunk
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			break
		}
		line := d.pending[:i]
		if c, ok := d.parseLine(line); ok {
			parsed = append(parsed, c)
		}
		d.pending = d.pending[i+1:]
	}

	// drop the consumed prefix so the buffer does not grow with the stream
	if len(d.pending) == 0 {
		d.pending = nil
	} else {
		d.pending = append([]byte(nil), d.pending...)
	}
	return parsed
}

// Flush parses whatever is left after the stream ended. A malformed
// remainder is discarded.
func (d *Decoder) Flush() (models.StreamChunk, bool) {
	rest := d.pending
	d.pending = nil
	return d.parseLine(rest)
}

func (d *Decoder) parseLine(line []byte) (models.StreamChunk, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return models.StreamChunk{}, false
	}

	var c models.StreamChunk
	if err := sonic.Unmarshal(line, &c); err != nil {
		d.malformed++
		d.logger.Printf("skip malformed stream line %q: %v\n", truncate(line, 120), err)
		return models.StreamChunk{}, false
	}

	d.lines++
	d.text.WriteString(c.Response)
	if c.Done {
		d.done = true
	}
	return c, true
}

// Pending returns the incomplete tail waiting for the next chunk.
func (d *Decoder) Pending() []byte {
	return d.pending
}

// Text returns the fragments accumulated so far.
func (d *Decoder) Text() string {
	return d.text.String()
}

// Done reports whether a chunk carried the completion flag.
func (d *Decoder) Done() bool {
	return d.done
}

// Lines returns how many complete lines have been parsed.
func (d *Decoder) Lines() int {
	return d.lines
}

// Malformed returns how many lines were skipped as invalid JSON.
func (d *Decoder) Malformed() int {
	return d.malformed
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
