package stats

import (
	"sort"

	"github.com/omarshaarawi/squadbot/internal/models"
)

type Season struct {
	Players       []models.PlayerSeasonStats
	Context       models.TeamSeasonContext
	MatchDuration float64
}

// Aggregate folds long-form records into one season row per player. A table
// that lacks a stat field entirely is rejected with a *models.StructureError;
// blank cells in a present column count as 0.
func Aggregate(table models.LongTable) (Season, error) {
	if missing := table.Present.Missing(); len(missing) > 0 {
		return Season{}, &models.StructureError{Missing: missing}
	}

	duration := MatchDuration(table.Records)
	ctx := SeasonContext(table.Records)
	teamMinutes := float64(ctx.MatchesPlayed) * duration

	byPlayer := map[models.PlayerKey]*models.PlayerSeasonStats{}
	for _, r := range table.Records {
		p, ok := byPlayer[r.Player]
		if !ok {
			p = &models.PlayerSeasonStats{Name: r.Player.Name, Position: r.Player.Position}
			byPlayer[r.Player] = p
		}
		p.Convocations += r.Convocations
		p.MatchesPlayed += boolCount(r.Played)
		p.MatchesStarted += boolCount(r.WasStarter)
		p.MatchesSubbed += boolCount(r.WasSub)
		p.MatchesCompleted += boolCount(duration > 0 && r.MinutesStarter == duration)
		p.MinutesStarter += r.MinutesStarter
		p.MinutesSub += r.MinutesSub
		p.Goals += r.Goals
		p.Yellow += r.Yellow
		p.DoubleYellow += r.DoubleYellow
		p.Red += r.Red
	}

	players := make([]models.PlayerSeasonStats, 0, len(byPlayer))
	for _, p := range byPlayer {
		if IsPlaceholderName(p.Name) {
			continue
		}
		p.TotalMinutes = p.MinutesStarter + p.MinutesSub
		p.MinutesPossible = p.Convocations * duration
		p.MinutesPerGoal = SafeDiv(p.TotalMinutes, p.Goals)
		p.MinutesPerYellow = SafeDiv(p.TotalMinutes, p.Yellow)
		p.MinutesPerRed = SafeDiv(p.TotalMinutes, p.Red)
		p.PctPlayedOfAvailable = Percent(p.TotalMinutes, p.MinutesPossible)
		p.PctPlayedOfTeamTotal = Percent(p.TotalMinutes, teamMinutes)
		players = append(players, *p)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].Position < players[j].Position
	})

	return Season{
		Players:       players,
		Context:       ctx,
		MatchDuration: duration,
	}, nil
}

// SeasonContext finds the matchdays the team actually played: those where
// the squad logged any starter minutes. Rest weeks are skipped.
func SeasonContext(records []models.LongRecord) models.TeamSeasonContext {
	starterMinutes := map[string]float64{}
	ordinals := map[string]int{}
	for _, r := range records {
		starterMinutes[r.Matchday.Label] += r.MinutesStarter
		ordinals[r.Matchday.Label] = r.Matchday.Ordinal
	}

	var ctx models.TeamSeasonContext
	for label, minutes := range starterMinutes {
		if minutes <= 0 {
			continue
		}
		ctx.MatchesPlayed++
		if ordinals[label] > ctx.CurrentMatchday {
			ctx.CurrentMatchday = ordinals[label]
		}
	}
	return ctx
}
