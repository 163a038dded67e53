package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Memory store
	RedisAddr        string `env:"REDIS_ADDR"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	MemoryTTLSeconds int    `env:"MEMORY_TTL_SECONDS" envDefault:"10800"`

	// Text generation
	HFSpaceURL string `env:"HF_SPACE_URL"`
	HFAPIToken string `env:"HF_API_TOKEN"`

	// Replicate. Model tables are "name=owner/model" pairs separated by
	// commas, e.g. "flux=black-forest-labs/flux-schnell,caption=salesforce/blip".
	ReplicateAPIToken      string `env:"REPLICATE_API_TOKEN"`
	ReplicateChatModelsRaw string `env:"REPLICATE_CHAT_MODELS"`
	ReplicateTTSModel      string `env:"REPLICATE_TTS_MODEL"`
	ReplicateModelsRaw     string `env:"REPLICATE_MODELS"`

	// Media generation
	ViduAPIKey string `env:"VIDU_API_KEY"`

	// Speech synthesis
	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID string `env:"ELEVENLABS_VOICE_ID" envDefault:"21m00Tcm4TlvDq8ikWAM"`

	LogDev bool `env:"LOG_DEV"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) MemoryTTL() time.Duration {
	return time.Duration(c.MemoryTTLSeconds) * time.Second
}

func (c *Config) ReplicateChatModels() map[string]string {
	return parseModelTable(c.ReplicateChatModelsRaw)
}

func (c *Config) ReplicateModels() map[string]string {
	return parseModelTable(c.ReplicateModelsRaw)
}

// parseModelTable parses "key=value,key=value" pairs, skipping anything
// malformed. An empty input yields an empty table.
func parseModelTable(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" || v == "" {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}
