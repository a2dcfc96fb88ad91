package stats

import (
	"sort"

	"github.com/omarshaarawi/squadbot/internal/models"
)

// Timeline is the per-matchday minute breakdown of one player.
func Timeline(records []models.LongRecord, key models.PlayerKey) []models.TimelineEntry {
	own := PlayerRecords(records, key)
	entries := make([]models.TimelineEntry, len(own))
	for i, r := range own {
		entries[i] = models.TimelineEntry{
			Matchday:       r.Matchday,
			MinutesStarter: r.MinutesStarter,
			MinutesSub:     r.MinutesSub,
			Goals:          r.Goals,
			Yellow:         r.Yellow,
		}
	}
	return entries
}

// Compare puts two season rows side by side.
func Compare(a, b models.PlayerSeasonStats) models.HeadToHead {
	metric := func(name string, va, vb float64, higherIsBetter bool) models.MetricComparison {
		m := models.MetricComparison{
			Metric:         name,
			A:              va,
			B:              vb,
			Delta:          va - vb,
			HigherIsBetter: higherIsBetter,
		}
		switch {
		case va == vb:
			m.Leader = models.LeaderNone
		case (va > vb) == higherIsBetter:
			m.Leader = models.LeaderA
		default:
			m.Leader = models.LeaderB
		}
		return m
	}

	return models.HeadToHead{
		A: a,
		B: b,
		Metrics: []models.MetricComparison{
			metric("Total minutes", a.TotalMinutes, b.TotalMinutes, true),
			metric("Goals", a.Goals, b.Goals, true),
			metric("Yellow cards", a.Yellow, b.Yellow, false),
			metric("Starter minutes", a.MinutesStarter, b.MinutesStarter, true),
			metric("Sub minutes", a.MinutesSub, b.MinutesSub, true),
		},
	}
}

var radarMetrics = []struct {
	name  string
	value func(models.PlayerSeasonStats) float64
}{
	{"Minutes", func(p models.PlayerSeasonStats) float64 { return p.TotalMinutes }},
	{"Goals", func(p models.PlayerSeasonStats) float64 { return p.Goals }},
	{"Participation", func(p models.PlayerSeasonStats) float64 { return p.PctPlayedOfTeamTotal }},
	{"Starts", func(p models.PlayerSeasonStats) float64 { return float64(p.MatchesStarted) }},
}

// Radar scores a player 0-100 on each axis relative to the best value in the squad.
func Radar(players []models.PlayerSeasonStats, p models.PlayerSeasonStats) []models.RadarAxis {
	axes := make([]models.RadarAxis, len(radarMetrics))
	for i, m := range radarMetrics {
		var best float64
		for _, other := range players {
			if v := m.value(other); v > best {
				best = v
			}
		}
		axes[i] = models.RadarAxis{Metric: m.name, Value: Percent(m.value(p), best)}
	}
	return axes
}

// Efficiency lists goals per 90 minutes for players with more than one full
// match worth of minutes, best ratio first.
func Efficiency(players []models.PlayerSeasonStats, duration float64) []models.EfficiencyEntry {
	var out []models.EfficiencyEntry
	for _, p := range players {
		if duration <= 0 || p.TotalMinutes <= duration {
			continue
		}
		out = append(out, models.EfficiencyEntry{
			Name:         p.Name,
			Position:     p.Position,
			TotalMinutes: p.TotalMinutes,
			Goals:        p.Goals,
			GoalsPer90:   SafeDiv(p.Goals, p.TotalMinutes) * 90,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GoalsPer90 > out[j].GoalsPer90
	})
	return out
}

func TopScorers(players []models.PlayerSeasonStats) []models.PlayerSeasonStats {
	return rankBy(players, func(p models.PlayerSeasonStats) float64 { return p.Goals })
}

func Discipline(players []models.PlayerSeasonStats) []models.PlayerSeasonStats {
	return rankBy(players, func(p models.PlayerSeasonStats) float64 { return p.Yellow })
}

func rankBy(players []models.PlayerSeasonStats, value func(models.PlayerSeasonStats) float64) []models.PlayerSeasonStats {
	var out []models.PlayerSeasonStats
	for _, p := range players {
		if value(p) > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return value(out[i]) > value(out[j])
	})
	return out
}

func Summarize(report *models.SeasonReport) models.TeamSummary {
	s := models.TeamSummary{
		Team:            report.Team,
		SquadSize:       len(report.Players),
		CurrentMatchday: report.Context.CurrentMatchday,
		MatchesPlayed:   report.Context.MatchesPlayed,
		MatchDuration:   report.MatchDuration,
		Tiers:           map[models.Tier]int{},
		TeamTiers:       map[models.Tier]int{},
	}
	for _, p := range report.Players {
		s.Goals += p.Goals
		s.Yellows += p.Yellow
		s.Tiers[p.Tier]++
		s.TeamTiers[p.TeamTier]++
	}
	return s
}
