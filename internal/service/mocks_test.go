package service

import (
	"context"

	"github.com/kdduha/caption-generator/backend/internal/models"
)

// --- Mocks ---

type mockPrimary struct {
	calls     int
	lastImage []byte
	lastPC    models.PromptContext
	caption   string
	err       error
}

func (m *mockPrimary) Generate(ctx context.Context, image []byte, pc models.PromptContext) (string, error) {
	m.calls++
	m.lastImage = image
	m.lastPC = pc
	return m.caption, m.err
}

type mockFallback struct {
	calls       int
	lastImage   []byte
	lastHoliday string
	caption     string
	err         error
}

func (m *mockFallback) Generate(ctx context.Context, image []byte, holiday string) (string, error) {
	m.calls++
	m.lastImage = image
	m.lastHoliday = holiday
	return m.caption, m.err
}

type mockNormalizer struct {
	calls int
	out   []byte
	err   error
}

func (m *mockNormalizer) Normalize(data []byte) ([]byte, error) {
	m.calls++
	return m.out, m.err
}
