package models

import "strings"

// CaptionRequest represents request for generate endpoint
type CaptionRequest struct {
	Image   []byte
	Holiday string
}

func (r CaptionRequest) Validate() error {
	if len(r.Image) == 0 && strings.TrimSpace(r.Holiday) == "" {
		return ErrInvalidRequest
	}
	return nil
}

func (r CaptionRequest) PromptContext() PromptContext {
	return PromptContext{
		HasImage: len(r.Image) > 0,
		Holiday:  strings.TrimSpace(r.Holiday),
	}
}

// PromptContext selects model identity and prompt template
type PromptContext struct {
	HasImage bool
	Holiday  string
}

type CaptionResponse struct {
	Caption string `json:"caption" example:"Santa's little helpers are ready to play! 🎄"`
}

type HolidaysResponse struct {
	Holidays []string `json:"holidays"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"Failed to generate caption"`
}
