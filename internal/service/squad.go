package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omarshaarawi/squadbot/internal/api/squad"
	"github.com/omarshaarawi/squadbot/internal/models"
	"github.com/omarshaarawi/squadbot/internal/repository/memory"
	"github.com/omarshaarawi/squadbot/internal/stats"
	"golang.org/x/sync/singleflight"
)

type TableSource interface {
	Teams() []string
	ResolveTeam(query string) (string, bool)
	GetRawTable(ctx context.Context, team string) (models.RawTable, error)
}

type SquadService struct {
	api   TableSource
	repo  *memory.Repository
	fills singleflight.Group
}

func NewSquadService(api TableSource, repo *memory.Repository) *SquadService {
	return &SquadService{api: api, repo: repo}
}

const fillTimeout = time.Minute

// Report returns the season report for team, recomputing it when the cached
// one has expired. Concurrent callers for the same team share one fill; a
// fill started before the last Refresh is never shared with or cached for
// later callers.
func (s *SquadService) Report(ctx context.Context, team string) (*models.SeasonReport, error) {
	if report, ok := s.repo.GetReport(team); ok {
		return report, nil
	}

	gen := s.repo.Generation()
	key := fmt.Sprintf("%s#%d", team, gen)
	v, err, _ := s.fills.Do(key, func() (interface{}, error) {
		if report, ok := s.repo.GetReport(team); ok {
			return report, nil
		}
		// Shared by every waiter, so one caller giving up must not fail the rest.
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()

		raw, err := s.api.GetRawTable(fillCtx, team)
		if err != nil {
			return nil, err
		}
		report, err := stats.Run(team, raw, s.repo.Now())
		if err != nil {
			return nil, err
		}
		if !s.repo.SaveReport(report, gen) {
			slog.Info("Season report discarded after refresh", "team", team, "report", report.ID)
			return report, nil
		}
		slog.Info("Season report computed", "team", team, "report", report.ID,
			"players", len(report.Players), "matchday", report.Context.CurrentMatchday)
		return report, nil
	})
	if err != nil {
		slog.Error("Failed to build season report", "team", team, "error", err)
		return nil, err
	}
	return v.(*models.SeasonReport), nil
}

// Refresh drops every cached report so the next request reloads the sheet.
func (s *SquadService) Refresh() {
	s.repo.InvalidateAll()
	slog.Info("Season report cache invalidated")
}

func (s *SquadService) Teams() []string {
	return s.api.Teams()
}

// TeamFor returns the team a chat selected, falling back to the first
// configured team.
func (s *SquadService) TeamFor(chatID int64) string {
	if team, ok := s.repo.GetSelection(chatID); ok {
		return team
	}
	teams := s.api.Teams()
	if len(teams) == 0 {
		return ""
	}
	return teams[0]
}

func (s *SquadService) SelectTeam(chatID int64, query string) (string, error) {
	team, ok := s.api.ResolveTeam(query)
	if !ok {
		return "", fmt.Errorf("no team matching %q", query)
	}
	s.repo.SaveSelection(chatID, team)
	return team, nil
}

func (s *SquadService) findPlayer(report *models.SeasonReport, query string) (models.PlayerSeasonStats, error) {
	names := make([]string, len(report.Players))
	for i, p := range report.Players {
		names[i] = p.Name
	}
	name, ok := squad.ResolveName(query, names)
	if !ok {
		return models.PlayerSeasonStats{}, fmt.Errorf("no player matching %q in %s", query, report.Team)
	}
	for _, p := range report.Players {
		if p.Name == name {
			return p, nil
		}
	}
	return models.PlayerSeasonStats{}, fmt.Errorf("no player matching %q in %s", query, report.Team)
}

// UserMessage turns a pipeline error into the text shown to the coach.
func UserMessage(team string, err error) string {
	var srcErr *models.SourceUnavailableError
	var structErr *models.StructureError
	switch {
	case errors.As(err, &srcErr):
		return fmt.Sprintf("⚠️ Could not load the sheet for *%s*. Other teams are still available.", escape(srcErr.Team))
	case errors.As(err, &structErr) && len(structErr.Missing) > 0:
		return fmt.Sprintf("⚠️ The sheet for *%s* is missing columns: %s", escape(team), escape(strings.Join(structErr.MissingNames(), ", ")))
	case errors.As(err, &structErr):
		return fmt.Sprintf("⚠️ The sheet for *%s* is malformed: %s", escape(team), escape(structErr.Reason))
	}
	return fmt.Sprintf("⚠️ %s", escape(err.Error()))
}
