package ollama

import (
	"encoding/base64"
	"fmt"

	"github.com/kdduha/caption-generator/backend/internal/models"
	"github.com/samber/lo"
)

const (
	imagePromptTemplate = "<image>%s</image>\nAnalyze this image%s. You are a social media administrator for %s, " +
		"now generate a short, engaging social media caption that describes what's in the image. " +
		"Only include emojis that are relevant to the image. Maximum 1-2 relevant emojis. " +
		"Keep it casual, fun, and under 50 words."

	textPromptTemplate = "You are a social media administrator for %s. Write a short, engaging social media post for %s. " +
		"Only include emojis that are relevant to the post. Maximum 1-2 relevant emojis. " +
		"Keep it casual, fun, and under 50 words."
)

// Models holds the model identities picked by image presence.
type Models struct {
	Vision string
	Text   string
}

type Prompt struct {
	Model  string
	Text   string
	Images []string
}

// BuildPrompt picks the model and prompt text for pc. image must already be
// normalized when pc.HasImage is set.
func BuildPrompt(pc models.PromptContext, image []byte, organization string, m Models) Prompt {
	if !pc.HasImage {
		return Prompt{
			Model: m.Text,
			Text:  fmt.Sprintf(textPromptTemplate, organization, pc.Holiday),
		}
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	holiday := lo.Ternary(pc.Holiday != "", " in the context of "+pc.Holiday, "")
	return Prompt{
		Model:  m.Vision,
		Text:   fmt.Sprintf(imagePromptTemplate, DataURI(encoded), holiday, organization),
		Images: []string{encoded},
	}
}

func DataURI(encoded string) string {
	return "data:image/jpeg;base64," + encoded
}
