package ollama

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/kdduha/caption-generator/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Feed(t *testing.T) {
	t.Run("LineSplitAcrossChunks", func(t *testing.T) {
		dec := NewDecoder(nil)

		first := dec.Feed([]byte(`{"response":"Hi"}` + "\n" + `{"respo`))
		require.Len(t, first, 1)
		assert.Equal(t, "Hi", first[0].Response)
		assert.Equal(t, `{"respo`, string(dec.Pending()))
		assert.False(t, dec.Done())

		second := dec.Feed([]byte(`nse":" there","done":true}` + "\n"))
		require.Len(t, second, 1)
		assert.True(t, second[0].Done)
		assert.Empty(t, dec.Pending())

		_, ok := dec.Flush()
		assert.False(t, ok)
		assert.Equal(t, "Hi there", dec.Text())
		assert.True(t, dec.Done())
	})

	t.Run("EmitsCompleteLinesBeforeNextChunk", func(t *testing.T) {
		dec := NewDecoder(nil)
		partial := `{"response":"tail`

		var b strings.Builder
		for _, w := range []string{"a", "b", "c", "d"} {
			b.WriteString(`{"response":"` + w + `"}` + "\n")
		}
		b.WriteString(partial)

		got := dec.Feed([]byte(b.String()))
		require.Len(t, got, 4)
		assert.Equal(t, partial, string(dec.Pending()))

		got = dec.Feed([]byte(`"}` + "\n"))
		require.Len(t, got, 1)
		assert.Equal(t, "tail", got[0].Response)
		assert.Equal(t, "abcdtail", dec.Text())
	})

	t.Run("ByteByByte", func(t *testing.T) {
		stream := `{"response":"Happy"}` + "\n" + `{"response":" Easter 🐣"}` + "\n" + `{"done":true}` + "\n"
		dec := NewDecoder(nil)

		total := 0
		for i := 0; i < len(stream); i++ {
			total += len(dec.Feed([]byte{stream[i]}))
		}

		assert.Equal(t, 3, total)
		assert.Equal(t, "Happy Easter 🐣", dec.Text())
		assert.True(t, dec.Done())
	})

	t.Run("MalformedLinesAreSkipped", func(t *testing.T) {
		var logs bytes.Buffer
		dec := NewDecoder(log.New(&logs, "", 0))

		got := dec.Feed([]byte(`{"response":"one"}` + "\n" + `not json` + "\n\n" + `{"response":" two"}` + "\n"))

		require.Len(t, got, 2)
		assert.Equal(t, "one two", dec.Text())
		assert.Equal(t, 1, dec.Malformed())
		assert.Equal(t, 2, dec.Lines())
		assert.Contains(t, logs.String(), "not json")
	})

	t.Run("TrailingBytesAfterDone", func(t *testing.T) {
		dec := NewDecoder(nil)

		dec.Feed([]byte(`{"response":"ok","done":true}` + "\n" + `{"response":"!"}` + "\n"))

		assert.True(t, dec.Done())
		assert.Equal(t, "ok!", dec.Text())
	})

	t.Run("CRLFLines", func(t *testing.T) {
		dec := NewDecoder(nil)

		got := dec.Feed([]byte(`{"response":"a"}` + "\r\n" + `{"response":"b"}` + "\r\n"))

		assert.Len(t, got, 2)
		assert.Equal(t, "ab", dec.Text())
	})
}

func TestDecoder_Flush(t *testing.T) {
	t.Run("ParsesRemainder", func(t *testing.T) {
		dec := NewDecoder(nil)
		dec.Feed([]byte(`{"response":"no newline"}`))

		c, ok := dec.Flush()

		require.True(t, ok)
		assert.Equal(t, models.StreamChunk{Response: "no newline"}, c)
		assert.Equal(t, "no newline", dec.Text())
	})

	t.Run("DiscardsMalformedRemainder", func(t *testing.T) {
		dec := NewDecoder(nil)
		dec.Feed([]byte(`{"response":"kept"}` + "\n" + `{"response":"cut`))

		_, ok := dec.Flush()

		assert.False(t, ok)
		assert.Equal(t, "kept", dec.Text())
		assert.Empty(t, dec.Pending())
	})

	t.Run("WhitespaceRemainder", func(t *testing.T) {
		dec := NewDecoder(nil)
		dec.Feed([]byte("   "))

		_, ok := dec.Flush()

		assert.False(t, ok)
		assert.Equal(t, 0, dec.Malformed())
	})
}
