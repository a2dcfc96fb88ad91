package stats

import (
	"strings"

	"github.com/omarshaarawi/squadbot/internal/models"
)

// Reshape pivots a wide sheet into one record per player and matchday.
// Cells are coerced to numbers and never fail; rows are kept even when the
// identity columns hold artifacts, those are dropped by Aggregate.
func Reshape(raw models.RawTable) models.LongTable {
	present := models.FieldSet{}
	var matchdays []models.Matchday
	index := map[string]int{}
	// layout[matchday][field] is the column index holding that stat.
	var layout []map[models.StatField]int

	for col, c := range raw.Columns {
		field, ok := models.ParseStatField(c.Field)
		if !ok {
			continue
		}
		label := strings.TrimSpace(c.Matchday)
		i, seen := index[label]
		if !seen {
			i = len(matchdays)
			index[label] = i
			matchdays = append(matchdays, models.NewMatchday(label))
			layout = append(layout, map[models.StatField]int{})
		}
		if _, dup := layout[i][field]; !dup {
			layout[i][field] = col
		}
		present[field] = true
	}

	records := make([]models.LongRecord, 0, len(raw.Rows)*len(matchdays))
	for _, row := range raw.Rows {
		key := models.PlayerKey{
			Name:     strings.TrimSpace(row.Name),
			Position: strings.TrimSpace(row.Position),
		}
		for i, md := range matchdays {
			value := func(f models.StatField) float64 {
				col, ok := layout[i][f]
				if !ok || col >= len(row.Cells) {
					return 0
				}
				return ToNumber(row.Cells[col])
			}
			rec := models.LongRecord{
				Player:         key,
				Matchday:       md,
				Convocations:   value(models.Convocations),
				MinutesStarter: value(models.MinutesStarter),
				MinutesSub:     value(models.MinutesSub),
				Goals:          value(models.Goals),
				Yellow:         value(models.Yellow),
				DoubleYellow:   value(models.DoubleYellow),
				Red:            value(models.Red),
			}
			rec.TotalMinutes = rec.MinutesStarter + rec.MinutesSub
			rec.Played = rec.TotalMinutes > 0
			rec.WasStarter = rec.MinutesStarter > 0
			rec.WasSub = rec.MinutesSub > 0
			records = append(records, rec)
		}
	}

	duration := MatchDuration(records)
	for i := range records {
		records[i].PlayedFull = duration > 0 && records[i].MinutesStarter == duration
	}

	return models.LongTable{
		Records:       records,
		Matchdays:     matchdays,
		Present:       present,
		MatchDuration: duration,
	}
}

// MatchDuration infers the length of a full match as the longest starter
// stint in the data set.
func MatchDuration(records []models.LongRecord) float64 {
	var longest float64
	for _, r := range records {
		if r.MinutesStarter > longest {
			longest = r.MinutesStarter
		}
	}
	return longest
}
