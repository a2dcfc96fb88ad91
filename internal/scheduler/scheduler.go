package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/squadbot/internal/config"
	"github.com/omarshaarawi/squadbot/internal/service"
)

type Scheduler struct {
	s            gocron.Scheduler
	squadService *service.SquadService
	sendMessage  func(string) error
	cron         string
}

func NewScheduler(cfg config.Report, squadService *service.SquadService, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:            s,
		squadService: squadService,
		sendMessage:  sendMessage,
		cron:         cfg.Cron,
	}, nil
}

func (s *Scheduler) Start() error {
	// Weekly squad report, Monday 7:30 by default
	_, err := s.s.NewJob(
		gocron.CronJob(s.cron, false),
		gocron.NewTask(s.sendSquadReports),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create squad report job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// sendSquadReports reloads every team and posts one combined summary. A team
// whose sheet fails is reported inline and does not stop the others.
func (s *Scheduler) sendSquadReports() {
	s.squadService.Refresh()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var sections []string
	for _, team := range s.squadService.Teams() {
		summary, err := s.squadService.GetSummary(ctx, team)
		if err != nil {
			slog.Error("Failed to get squad summary", "team", team, "error", err)
			sections = append(sections, service.UserMessage(team, err))
			continue
		}
		sections = append(sections, summary)
	}

	if err := s.sendMessage(strings.Join(sections, "\n\n")); err != nil {
		slog.Error("Failed to send squad reports", "error", err)
	}
}
