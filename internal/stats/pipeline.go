package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omarshaarawi/squadbot/internal/models"
)

// Run takes a team's raw sheet through Reshape, Aggregate and the classifier.
// No partial report is returned on error.
func Run(team string, raw models.RawTable, now time.Time) (*models.SeasonReport, error) {
	table := Reshape(raw)

	season, err := Aggregate(table)
	if err != nil {
		var structErr *models.StructureError
		if errors.As(err, &structErr) && structErr.Team == "" {
			structErr.Team = team
		}
		return nil, fmt.Errorf("aggregating %s: %w", team, err)
	}

	return &models.SeasonReport{
		ID:            uuid.NewString(),
		Team:          team,
		Records:       table.Records,
		Players:       ClassifyPlayers(season.Players),
		Context:       season.Context,
		MatchDuration: season.MatchDuration,
		ComputedAt:    now,
	}, nil
}
