package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/kdduha/caption-generator/backend/internal/metrics"
	"github.com/kdduha/caption-generator/backend/internal/models"
)

type Normalizer func(data []byte) ([]byte, error)

type PrimaryGenerator interface {
	Generate(ctx context.Context, image []byte, pc models.PromptContext) (string, error)
}

type FallbackGenerator interface {
	Generate(ctx context.Context, image []byte, holiday string) (string, error)
}

type CaptionService struct {
	logger    *log.Logger
	normalize Normalizer
	primary   PrimaryGenerator
	fallback  FallbackGenerator
}

func NewCaptionService(
	logger *log.Logger,
	normalize Normalizer,
	primary PrimaryGenerator,
	fallback FallbackGenerator,
) *CaptionService {
	return &CaptionService{
		logger:    logger,
		normalize: normalize,
		primary:   primary,
		fallback:  fallback,
	}
}

// Generate tries the primary backend once and, if it fails, the fallback
// once. The fallback's error is returned when both fail.
func (s *CaptionService) Generate(ctx context.Context, req *models.CaptionRequest) (*models.CaptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pc := req.PromptContext()

	caption, image, err := s.tryPrimary(ctx, req.Image, pc)
	if err == nil {
		return &models.CaptionResponse{Caption: caption}, nil
	}
	s.logger.Printf("primary generation failed: %v\n", err)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("caption generation aborted: %w", ctxErr)
	}

	s.logger.Println("falling back to hosted generation")
	caption, err = s.tryFallback(ctx, image, pc.Holiday)
	if err != nil {
		s.logger.Printf("fallback generation failed: %v\n", err)
		return nil, err
	}
	return &models.CaptionResponse{Caption: caption}, nil
}

// Holidays returns the preset holiday themes.
func (s *CaptionService) Holidays() []string {
	return slices.Clone(holidays)
}

// tryPrimary normalizes the image and runs the primary backend. A decode
// failure counts as a failed primary attempt; the raw bytes are then
// returned for the fallback.
func (s *CaptionService) tryPrimary(ctx context.Context, raw []byte, pc models.PromptContext) (string, []byte, error) {
	start := time.Now()

	image := raw
	if pc.HasImage {
		normalized, err := s.normalize(raw)
		if err != nil {
			err = models.NewGenerationError(models.BackendPrimary, models.ErrImageDecode, err)
			observe(models.BackendPrimary, err, time.Since(start))
			return "", raw, err
		}
		s.logger.Printf("image normalized: %d -> %d bytes\n", len(raw), len(normalized))
		image = normalized
	}

	caption, err := s.primary.Generate(ctx, image, pc)
	observe(models.BackendPrimary, err, time.Since(start))
	return caption, image, err
}

func (s *CaptionService) tryFallback(ctx context.Context, image []byte, holiday string) (string, error) {
	start := time.Now()
	caption, err := s.fallback.Generate(ctx, image, holiday)
	observe(models.BackendFallback, err, time.Since(start))
	return caption, err
}

func observe(backend models.Backend, err error, duration time.Duration) {
	status := models.KindOf(err)
	if errors.Is(err, context.Canceled) {
		status = "canceled"
	}
	metrics.CaptionGenerationTotal(string(backend), status)
	metrics.CaptionGenerationDuration(string(backend), status, duration)
}
