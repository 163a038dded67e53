package provider

import (
	"go.uber.org/zap"

	"ai-hub/internal/config"
)

// Registry bundles one client per upstream provider. Availability of
// each client follows configuration presence and is rechecked on every
// resolution pass, never cached as a hard failure.
type Registry struct {
	Space      *Space
	HFChat     *HFChat
	Replicate  *Replicate
	Vidu       *Vidu
	ElevenLabs *ElevenLabs
	Wiki       *Wiki
	Duck       *Duck
	Translate  *Translate
}

func NewRegistry(cfg *config.Config, log *zap.SugaredLogger) *Registry {
	return &Registry{
		Space:  &Space{URL: cfg.HFSpaceURL},
		HFChat: NewHFChat(cfg.HFAPIToken),
		Replicate: &Replicate{
			Token:      cfg.ReplicateAPIToken,
			ChatModels: cfg.ReplicateChatModels(),
			TTSModel:   cfg.ReplicateTTSModel,
			Models:     cfg.ReplicateModels(),
		},
		Vidu:       &Vidu{Key: cfg.ViduAPIKey},
		ElevenLabs: &ElevenLabs{Key: cfg.ElevenLabsAPIKey, VoiceID: cfg.ElevenLabsVoiceID},
		Wiki:       &Wiki{},
		Duck:       &Duck{},
		Translate:  &Translate{Log: log},
	}
}
