// Package ollama drives a local streaming /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/caption-generator/backend/internal/config"
	"github.com/kdduha/caption-generator/backend/internal/models"
	"github.com/samber/lo"
)

const (
	generatePath = "/api/generate"
	readSize     = 4096
)

var DefaultStop = []string{"\n\n", "2.", "Note:"}

type Client struct {
	logger         *log.Logger
	httpClient     *http.Client
	endpoint       string
	models         Models
	options        models.GenerateOptions
	organization   string
	fillerPrefixes []string
	streamTimeout  time.Duration
}

func NewClient(logger *log.Logger, cfg config.OllamaConfig, captionCfg config.CaptionConfig) *Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.ResponseHeaderTimeout = cfg.StreamTimeout

	return &Client{
		logger:     logger,
		httpClient: &http.Client{Transport: transport},
		endpoint:   strings.TrimSuffix(cfg.URL, "/") + generatePath,
		models: Models{
			Vision: cfg.VisionModel,
			Text:   cfg.TextModel,
		},
		options: models.GenerateOptions{
			Temperature: cfg.Temperature,
			TopK:        cfg.TopK,
			TopP:        cfg.TopP,
			NumPredict:  cfg.NumPredict,
			Stop:        lo.Ternary(len(cfg.Stop) > 0, cfg.Stop, DefaultStop),
		},
		organization:   captionCfg.Organization,
		fillerPrefixes: lo.Ternary(len(captionCfg.FillerPrefixes) > 0, captionCfg.FillerPrefixes, DefaultFillerPrefixes),
		streamTimeout:  cfg.StreamTimeout,
	}
}

// Generate streams a completion for pc and returns the cleaned caption.
// Failures are *models.GenerationError with the primary backend.
func (c *Client) Generate(ctx context.Context, image []byte, pc models.PromptContext) (string, error) {
	prompt := BuildPrompt(pc, image, c.organization, c.models)
	c.logger.Printf("ollama request: model=%s has_image=%t holiday=%q\n", prompt.Model, pc.HasImage, pc.Holiday)

	raw, err := c.stream(ctx, prompt)
	if err != nil {
		return "", err
	}
	return CleanCaption(raw, c.fillerPrefixes), nil
}

func (c *Client) stream(ctx context.Context, prompt Prompt) (string, error) {
	if c.streamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.streamTimeout)
		defer cancel()
	}

	body, err := sonic.Marshal(models.GenerateRequest{
		Model:   prompt.Model,
		Prompt:  prompt.Text,
		Images:  prompt.Images,
		Stream:  true,
		Options: c.options,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", models.NewGenerationError(models.BackendPrimary, models.ErrEndpointUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewGenerationError(models.BackendPrimary, models.ErrEndpointUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, readSize))
		return "", models.NewGenerationError(models.BackendPrimary, models.ErrStreamTransport,
			fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	text, err := c.consume(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", models.NewGenerationError(models.BackendPrimary, models.ErrStreamTransport, err)
	}
	if text == "" {
		return "", models.NewGenerationError(models.BackendPrimary, models.ErrEmptyGeneration, nil)
	}
	return text, nil
}

// consume feeds body into a Decoder chunk by chunk until EOF.
func (c *Client) consume(body io.Reader) (string, error) {
	dec := NewDecoder(c.logger)
	buf := make([]byte, readSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	dec.Flush()

	c.logger.Printf("ollama stream ended: lines=%d malformed=%d done=%t chars=%d\n",
		dec.Lines(), dec.Malformed(), dec.Done(), len(dec.Text()))
	return dec.Text(), nil
}
