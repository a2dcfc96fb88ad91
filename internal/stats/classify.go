package stats

import "github.com/omarshaarawi/squadbot/internal/models"

const (
	lowTierMax = 30.0
	midTierMax = 70.0
)

// Classify buckets a participation percentage: up to 30 is low, up to 70 is
// mid, anything above is high.
func Classify(pct float64) models.Tier {
	switch {
	case pct <= lowTierMax:
		return models.TierLow
	case pct <= midTierMax:
		return models.TierMid
	default:
		return models.TierHigh
	}
}

// ClassifyPlayers returns a copy of players with both tier labels set.
func ClassifyPlayers(players []models.PlayerSeasonStats) []models.PlayerSeasonStats {
	out := make([]models.PlayerSeasonStats, len(players))
	for i, p := range players {
		p.Tier = Classify(p.PctPlayedOfAvailable)
		p.TeamTier = Classify(p.PctPlayedOfTeamTotal)
		out[i] = p
	}
	return out
}
