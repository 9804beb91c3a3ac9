package usecase

import "trend-orchestrator/internal/domain"

// ModelProfiles maps quality tiers to generation-backend profiles. The
// defaults mirror the cost ladder: cheaper tiers get a smaller model and
// lower sampling temperature.
type ModelProfiles struct {
	LowCost     domain.ModelProfile
	Balanced    domain.ModelProfile
	HighQuality domain.ModelProfile
}

// DefaultModelProfiles returns the stock tier-to-profile mapping.
func DefaultModelProfiles(lowModel, highModel string) ModelProfiles {
	return ModelProfiles{
		LowCost:     domain.ModelProfile{Model: lowModel, Temperature: 0.3, MaxTokens: 2048},
		Balanced:    domain.ModelProfile{Model: lowModel, Temperature: 0.5, MaxTokens: 3072},
		HighQuality: domain.ModelProfile{Model: highModel, Temperature: 0.7, MaxTokens: 4096},
	}
}

// ForTier resolves the profile for a tier, defaulting to Balanced.
func (p ModelProfiles) ForTier(tier domain.QualityTier) domain.ModelProfile {
	switch tier {
	case domain.TierLowCost:
		return p.LowCost
	case domain.TierHighQuality:
		return p.HighQuality
	default:
		return p.Balanced
	}
}
