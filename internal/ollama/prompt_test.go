package ollama

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/kdduha/caption-generator/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testModels = Models{Vision: "llava", Text: "llama2-uncensored"}

func TestBuildPrompt(t *testing.T) {
	t.Run("TextOnly", func(t *testing.T) {
		p := BuildPrompt(models.PromptContext{Holiday: "Christmas"}, nil, "Toy Library", testModels)

		assert.Equal(t, "llama2-uncensored", p.Model)
		assert.Contains(t, p.Text, "social media post for Christmas")
		assert.Contains(t, p.Text, "Toy Library")
		assert.Contains(t, p.Text, "under 50 words")
		assert.NotContains(t, p.Text, "<image>")
		assert.Empty(t, p.Images)
	})

	t.Run("ImageWithHoliday", func(t *testing.T) {
		image := []byte("jpeg-bytes")
		encoded := base64.StdEncoding.EncodeToString(image)

		p := BuildPrompt(models.PromptContext{HasImage: true, Holiday: "Easter"}, image, "Toy Library", testModels)

		assert.Equal(t, "llava", p.Model)
		require.True(t, strings.HasPrefix(p.Text, "<image>data:image/jpeg;base64,"+encoded+"</image>\n"))
		assert.Contains(t, p.Text, "Analyze this image in the context of Easter.")
		assert.Contains(t, p.Text, "Maximum 1-2 relevant emojis")
		assert.Equal(t, []string{encoded}, p.Images)
	})

	t.Run("ImageWithoutHoliday", func(t *testing.T) {
		p := BuildPrompt(models.PromptContext{HasImage: true}, []byte("x"), "Toy Library", testModels)

		assert.Equal(t, "llava", p.Model)
		assert.Contains(t, p.Text, "Analyze this image. You are")
		assert.NotContains(t, p.Text, "in the context of")
	})
}
