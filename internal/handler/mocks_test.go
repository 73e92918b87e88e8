package handler

import (
	"context"

	"github.com/kdduha/caption-generator/backend/internal/models"
)

type mockCaptionService struct {
	calls   int
	lastReq *models.CaptionRequest
	resp    *models.CaptionResponse
	err     error
}

func (m *mockCaptionService) Generate(ctx context.Context, req *models.CaptionRequest) (*models.CaptionResponse, error) {
	m.calls++
	m.lastReq = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.resp, m.err
}

func (m *mockCaptionService) Holidays() []string {
	return []string{"Christmas", "Easter"}
}
