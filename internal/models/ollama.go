package models

// GenerateRequest is the body of a local /api/generate call
type GenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images,omitempty"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

type GenerateOptions struct {
	Temperature float64  `json:"temperature"`
	TopK        int      `json:"top_k"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop,omitempty"`
}

// StreamChunk is a single NDJSON line of a streaming generate response
type StreamChunk struct {
	Response string `json:"response,omitempty"`
	Done     bool   `json:"done,omitempty"`
}
