package stats

import (
	"sort"

	"github.com/omarshaarawi/squadbot/internal/models"
)

const FormWindowSize = 5

// RecentForm sums a player's minutes over the last FormWindowSize numbered
// matchdays up to and including the current one.
func RecentForm(records []models.LongRecord, currentMatchday int, duration float64) models.FormWindow {
	var eligible []models.LongRecord
	for _, r := range records {
		if r.Matchday.Numbered && r.Matchday.Ordinal <= currentMatchday {
			eligible = append(eligible, r)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Matchday.Ordinal < eligible[j].Matchday.Ordinal
	})
	if len(eligible) > FormWindowSize {
		eligible = eligible[len(eligible)-FormWindowSize:]
	}

	var w models.FormWindow
	for _, r := range eligible {
		w.Points = append(w.Points, models.FormPoint{Matchday: r.Matchday, Minutes: r.TotalMinutes})
		w.WindowMinutes += r.TotalMinutes
	}
	w.WindowCapacity = float64(len(eligible)) * duration
	w.WindowPct = Percent(w.WindowMinutes, w.WindowCapacity)
	return w
}

// PlayerRecords returns the records of one player in matchday order.
func PlayerRecords(records []models.LongRecord, key models.PlayerKey) []models.LongRecord {
	var out []models.LongRecord
	for _, r := range records {
		if r.Player == key {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Matchday.Ordinal < out[j].Matchday.Ordinal
	})
	return out
}
