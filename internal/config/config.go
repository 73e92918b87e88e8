package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server  ServerConfig
	Ollama  OllamaConfig
	OpenAI  OpenAIConfig
	Caption CaptionConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"3000"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"3m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
	MaxUploadBytes  int64         `env:"SERVER_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

type OllamaConfig struct {
	URL            string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	VisionModel    string        `env:"OLLAMA_VISION_MODEL" envDefault:"llava"`
	TextModel      string        `env:"OLLAMA_TEXT_MODEL" envDefault:"llama2-uncensored"`
	ConnectTimeout time.Duration `env:"OLLAMA_CONNECT_TIMEOUT" envDefault:"5s"`
	StreamTimeout  time.Duration `env:"OLLAMA_STREAM_TIMEOUT" envDefault:"2m"`
	Temperature    float64       `env:"OLLAMA_TEMPERATURE" envDefault:"0.8"`
	TopK           int           `env:"OLLAMA_TOP_K" envDefault:"40"`
	TopP           float64       `env:"OLLAMA_TOP_P" envDefault:"0.9"`
	NumPredict     int           `env:"OLLAMA_NUM_PREDICT" envDefault:"75"`
	// Stop sequences, "\n" escapes are expanded
	Stop []string `env:"OLLAMA_STOP" envSeparator:"|" envDefault:"\\n\\n|2.|Note:"`
}

type OpenAIConfig struct {
	APIKey    string `env:"OPENAI_API_KEY"`
	BaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model     string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	MaxTokens int64  `env:"OPENAI_MAX_TOKENS" envDefault:"150"`
}

// Enabled reports whether the hosted fallback has a credential.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

type CaptionConfig struct {
	Organization   string   `env:"CAPTION_ORGANIZATION" envDefault:"Church Corner Toy Library"`
	FillerPrefixes []string `env:"CAPTION_FILLER_PREFIXES" envSeparator:"|" envDefault:"Here's |Here is |I see |In this image "`
}

var escapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	for i, s := range cfg.Ollama.Stop {
		cfg.Ollama.Stop[i] = escapes.Replace(s)
	}
	return cfg, nil
}
