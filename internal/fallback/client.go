// Package fallback generates captions through a hosted chat-completion API.
package fallback

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/kdduha/caption-generator/backend/internal/config"
	"github.com/kdduha/caption-generator/backend/internal/imaging"
	"github.com/kdduha/caption-generator/backend/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

const (
	userPromptTemplate = "Generate a creative and engaging social media caption%s. Make it casual and relatable."
	defaultMaxTokens   = 150
)

type Client struct {
	logger       *log.Logger
	openaiClient openai.Client
	modelName    string
	maxTokens    int64
	enabled      bool
}

func NewClient(logger *log.Logger, openaiClient openai.Client, cfg config.OpenAIConfig) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		logger:       logger,
		openaiClient: openaiClient,
		modelName:    cfg.Model,
		maxTokens:    maxTokens,
		enabled:      cfg.Enabled(),
	}
}

// Generate returns the first completion choice as is. image must already
// be normalized to JPEG.
func (c *Client) Generate(ctx context.Context, image []byte, holiday string) (string, error) {
	if !c.enabled {
		return "", models.NewGenerationError(models.BackendFallback, models.ErrFallbackUnavailable, nil)
	}

	params := c.buildParams(image, holiday)
	c.logger.Printf("openai request: model=%s has_image=%t holiday=%q\n", c.modelName, len(image) > 0, holiday)

	resp, err := c.openaiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", models.NewGenerationError(models.BackendFallback, models.ErrFallbackGeneration,
			fmt.Errorf("OpenAI client error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", models.NewGenerationError(models.BackendFallback, models.ErrFallbackGeneration,
			fmt.Errorf("OpenAI returned no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) buildParams(image []byte, holiday string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(c.modelName),
		Messages:            BuildMessages(image, holiday),
		MaxCompletionTokens: openai.Int(c.maxTokens),
	}
}

// BuildMessages returns a single user turn with the instruction and, when
// present, the image as a data URI.
func BuildMessages(image []byte, holiday string) []openai.ChatCompletionMessageParamUnion {
	scope := ""
	if holiday != "" {
		scope = " for " + holiday
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(fmt.Sprintf(userPromptTemplate, scope)),
	}
	if len(image) > 0 {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: fmt.Sprintf("data:%s;base64,%s", imaging.MimeType, base64.StdEncoding.EncodeToString(image)),
		}))
	}

	return []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(parts),
	}
}
