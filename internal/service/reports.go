package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/squadbot/internal/models"
	"github.com/omarshaarawi/squadbot/internal/stats"
)

// escape makes sheet-sourced text safe inside a Markdown reply.
func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

func (s *SquadService) GetTeams(chatID int64) string {
	selected := s.TeamFor(chatID)

	var sb strings.Builder
	sb.WriteString("📋 *Teams*\n\n")
	for _, team := range s.Teams() {
		marker := "▫️"
		if team == selected {
			marker = "▶️"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, escape(team)))
	}
	sb.WriteString("\nUse /team <name> to switch.")
	return sb.String()
}

func (s *SquadService) GetSummary(ctx context.Context, team string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}
	summary := stats.Summarize(report)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ *Report: %s*\n\n", escape(summary.Team)))
	sb.WriteString(fmt.Sprintf("Goals: %.0f\n", summary.Goals))
	sb.WriteString(fmt.Sprintf("Yellow cards: %.0f\n", summary.Yellows))
	sb.WriteString(fmt.Sprintf("Squad: %d players\n", summary.SquadSize))
	sb.WriteString(fmt.Sprintf("Matchday: %d (%d played)\n", summary.CurrentMatchday, summary.MatchesPlayed))
	sb.WriteString(fmt.Sprintf("Match length: %.0f min\n", summary.MatchDuration))

	sb.WriteString("\n*Roles (of available minutes):*\n")
	writeTierCounts(&sb, summary.Tiers)
	sb.WriteString("\n*Roles (of team minutes):*\n")
	writeTierCounts(&sb, summary.TeamTiers)

	return sb.String(), nil
}

func matchdayLabel(md models.Matchday) string {
	if md.Numbered {
		return fmt.Sprintf("J%d", md.Ordinal)
	}
	return escape(md.Label)
}

func writeTierCounts(sb *strings.Builder, counts map[models.Tier]int) {
	for _, tier := range []models.Tier{models.TierHigh, models.TierMid, models.TierLow} {
		sb.WriteString(fmt.Sprintf("%s: %d\n", tier.Label(), counts[tier]))
	}
}

func (s *SquadService) GetTiers(ctx context.Context, team string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}

	players := make([]models.PlayerSeasonStats, len(report.Players))
	copy(players, report.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].PctPlayedOfAvailable > players[j].PctPlayedOfAvailable
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚦 *%s: Minutes Played*\n", escape(team)))
	sb.WriteString("_% of available / % of team total_\n\n")
	for _, tier := range []models.Tier{models.TierHigh, models.TierMid, models.TierLow} {
		sb.WriteString(fmt.Sprintf("*%s*\n", tier.Label()))
		for _, p := range players {
			if p.Tier != tier {
				continue
			}
			sb.WriteString(fmt.Sprintf("  • %s (%s) %.0f%% / %.0f%%\n",
				escape(p.Name), escape(p.Position), p.PctPlayedOfAvailable, p.PctPlayedOfTeamTotal))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (s *SquadService) GetScorers(ctx context.Context, team string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ *%s: Scorers*\n\n", escape(team)))
	scorers := stats.TopScorers(report.Players)
	if len(scorers) == 0 {
		sb.WriteString("No goals recorded yet.")
		return sb.String(), nil
	}
	for i, p := range scorers {
		sb.WriteString(fmt.Sprintf("%d. %s - %.0f (every %.0f min)\n", i+1, escape(p.Name), p.Goals, p.MinutesPerGoal))
	}
	return sb.String(), nil
}

func (s *SquadService) GetDiscipline(ctx context.Context, team string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🟨 *%s: Discipline*\n\n", escape(team)))
	booked := stats.Discipline(report.Players)
	if len(booked) == 0 {
		sb.WriteString("Clean sheet: 0 cards.")
		return sb.String(), nil
	}
	for _, p := range booked {
		sb.WriteString(fmt.Sprintf("%s - 🟨 %.0f", escape(p.Name), p.Yellow))
		if p.DoubleYellow > 0 {
			sb.WriteString(fmt.Sprintf(" 🟨🟨 %.0f", p.DoubleYellow))
		}
		if p.Red > 0 {
			sb.WriteString(fmt.Sprintf(" 🟥 %.0f", p.Red))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (s *SquadService) GetEfficiency(ctx context.Context, team string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 *%s: Goals per 90*\n\n", escape(team)))
	entries := stats.Efficiency(report.Players, report.MatchDuration)
	if len(entries) == 0 {
		sb.WriteString("Nobody has played a full match yet.")
		return sb.String(), nil
	}
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s - %.2f (%.0f goals in %.0f min)\n", escape(e.Name), e.GoalsPer90, e.Goals, e.TotalMinutes))
	}
	return sb.String(), nil
}

func (s *SquadService) GetPlayer(ctx context.Context, team, query string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}
	p, err := s.findPlayer(report, query)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 *%s* (%s)\n", escape(p.Name), escape(p.Position)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("Called up: %.0f | Played: %d\n", p.Convocations, p.MatchesPlayed))
	sb.WriteString(fmt.Sprintf("Started: %d | Subbed on: %d | Full: %d\n", p.MatchesStarted, p.MatchesSubbed, p.MatchesCompleted))
	sb.WriteString(fmt.Sprintf("Minutes: %.0f (%.0f starting, %.0f off the bench)\n", p.TotalMinutes, p.MinutesStarter, p.MinutesSub))
	sb.WriteString(fmt.Sprintf("Of available: %.1f%% %s\n", p.PctPlayedOfAvailable, p.Tier.Label()))
	sb.WriteString(fmt.Sprintf("Of team total: %.1f%% %s\n", p.PctPlayedOfTeamTotal, p.TeamTier.Label()))
	sb.WriteString(fmt.Sprintf("Goals: %.0f | 🟨 %.0f | 🟨🟨 %.0f | 🟥 %.0f\n", p.Goals, p.Yellow, p.DoubleYellow, p.Red))

	sb.WriteString("\n*Minutes by matchday:*\n")
	for _, e := range stats.Timeline(report.Records, p.Key()) {
		sb.WriteString(fmt.Sprintf("%s: %.0f + %.0f\n", matchdayLabel(e.Matchday), e.MinutesStarter, e.MinutesSub))
	}

	sb.WriteString("\n*Relative to squad best:*\n")
	for _, axis := range stats.Radar(report.Players, p) {
		sb.WriteString(fmt.Sprintf("%s: %.0f\n", axis.Metric, axis.Value))
	}

	return sb.String(), nil
}

func (s *SquadService) GetForm(ctx context.Context, team, query string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}
	p, err := s.findPlayer(report, query)
	if err != nil {
		return "", err
	}

	records := stats.PlayerRecords(report.Records, p.Key())
	form := stats.RecentForm(records, report.Context.CurrentMatchday, report.MatchDuration)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔥 *%s: Last %d matchdays*\n\n", escape(p.Name), stats.FormWindowSize))
	if len(form.Points) == 0 {
		sb.WriteString("No matchdays played yet.")
		return sb.String(), nil
	}
	for _, point := range form.Points {
		sb.WriteString(fmt.Sprintf("%s: %.0f min\n", matchdayLabel(point.Matchday), point.Minutes))
	}
	sb.WriteString(fmt.Sprintf("\n%.0f of %.0f min (%.0f%%)", form.WindowMinutes, form.WindowCapacity, form.WindowPct))
	return sb.String(), nil
}

func (s *SquadService) Compare(ctx context.Context, team, queryA, queryB string) (string, error) {
	report, err := s.Report(ctx, team)
	if err != nil {
		return "", err
	}
	a, err := s.findPlayer(report, queryA)
	if err != nil {
		return "", err
	}
	b, err := s.findPlayer(report, queryB)
	if err != nil {
		return "", err
	}

	h2h := stats.Compare(a, b)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚔️ *%s vs %s*\n\n", escape(a.Name), escape(b.Name)))
	for _, m := range h2h.Metrics {
		mark := ""
		switch m.Leader {
		case models.LeaderA:
			mark = " ◀️"
		case models.LeaderB:
			mark = " ▶️"
		}
		sb.WriteString(fmt.Sprintf("%s: %.0f - %.0f (%+.0f)%s\n", m.Metric, m.A, m.B, m.Delta, mark))
	}
	return sb.String(), nil
}
