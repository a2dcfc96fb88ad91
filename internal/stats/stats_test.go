package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/omarshaarawi/squadbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodes = []string{"C_NC", "T", "S", "G", "A", "DA", "R"}

// sheet builds a RawTable with the given stat codes repeated for every matchday.
// cells[player][matchday] holds the values for codes in order.
func sheet(matchdays []string, codes []string, players [][2]string, cells [][][]string) models.RawTable {
	var raw models.RawTable
	for _, md := range matchdays {
		for _, code := range codes {
			raw.Columns = append(raw.Columns, models.RawColumn{Matchday: md, Field: code})
		}
	}
	for i, p := range players {
		row := models.RawRow{Name: p[0], Position: p[1]}
		for _, values := range cells[i] {
			row.Cells = append(row.Cells, values...)
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}

// threeByThree is three players over three matchdays, the third a rest week.
func threeByThree() models.RawTable {
	return sheet(
		[]string{"1", "2", "3"},
		allCodes,
		[][2]string{{"Alvaro", "DEL"}, {"Bruno", "MED"}, {"Carlos", "DEF"}},
		[][][]string{
			{
				{"1", "90", "", "1", "", "", ""},
				{"1", "90", "", "2", "1", "", ""},
				{"1", "", "", "", "", "", ""},
			},
			{
				{"1", "", "30", "", "1", "", ""},
				{"1", "60", "", "", "", "", ""},
				{"1", "", "", "", "", "", ""},
			},
			{
				{"1", "", "", "", "", "", ""},
				{"0", "", "", "", "", "", ""},
				{"", "", "", "", "", "", ""},
			},
		},
	)
}

func mustSeason(t *testing.T, raw models.RawTable) Season {
	t.Helper()
	season, err := Aggregate(Reshape(raw))
	require.NoError(t, err)
	return season
}

func findPlayer(t *testing.T, players []models.PlayerSeasonStats, name string) models.PlayerSeasonStats {
	t.Helper()
	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %q not found", name)
	return models.PlayerSeasonStats{}
}

func TestReshape_OneRecordPerPlayerAndMatchday(t *testing.T) {
	table := Reshape(threeByThree())

	require.Len(t, table.Records, 9)
	require.Len(t, table.Matchdays, 3)
	assert.Equal(t, 90.0, table.MatchDuration)

	first := table.Records[0]
	assert.Equal(t, models.PlayerKey{Name: "Alvaro", Position: "DEL"}, first.Player)
	assert.Equal(t, "1", first.Matchday.Label)
	assert.Equal(t, 1, first.Matchday.Ordinal)
	assert.Equal(t, 90.0, first.TotalMinutes)
	assert.True(t, first.Played)
	assert.True(t, first.WasStarter)
	assert.False(t, first.WasSub)
	assert.True(t, first.PlayedFull)

	bruno := table.Records[3]
	assert.Equal(t, "Bruno", bruno.Player.Name)
	assert.True(t, bruno.WasSub)
	assert.False(t, bruno.PlayedFull)
}

func TestReshape_IdentityIsPositional(t *testing.T) {
	raw := models.RawTable{
		Columns: []models.RawColumn{{Matchday: "1", Field: "T"}},
		Rows:    []models.RawRow{{Name: "  Dani ", Position: "POR", Cells: []string{"90"}}},
	}

	table := Reshape(raw)

	require.Len(t, table.Records, 1)
	assert.Equal(t, "Dani", table.Records[0].Player.Name)
	assert.Equal(t, "POR", table.Records[0].Player.Position)
}

func TestReshape_CoercesJunkToZero(t *testing.T) {
	raw := sheet([]string{"1"}, []string{"T", "S", "G"}, [][2]string{{"Eva", "MED"}},
		[][][]string{{{"x", "", "NaN"}}})

	table := Reshape(raw)

	require.Len(t, table.Records, 1)
	r := table.Records[0]
	assert.Zero(t, r.MinutesStarter)
	assert.Zero(t, r.MinutesSub)
	assert.Zero(t, r.Goals)
	assert.False(t, r.Played)
}

func TestReshape_FieldMissingForOneMatchday(t *testing.T) {
	raw := models.RawTable{
		Columns: []models.RawColumn{
			{Matchday: "1", Field: "T"}, {Matchday: "1", Field: "G"},
			{Matchday: "2", Field: "T"},
		},
		Rows: []models.RawRow{{Name: "Fer", Position: "DEL", Cells: []string{"90", "1", "45"}}},
	}

	table := Reshape(raw)

	require.Len(t, table.Records, 2)
	assert.Equal(t, 1.0, table.Records[0].Goals)
	assert.Zero(t, table.Records[1].Goals)
	assert.Equal(t, 45.0, table.Records[1].MinutesStarter)
}

func TestReshape_KeepsPlaceholderRows(t *testing.T) {
	raw := sheet([]string{"1"}, []string{"T"}, [][2]string{{"Gil", "DEF"}, {"0", ""}, {"", ""}},
		[][][]string{{{"90"}}, {{"90"}}, {{""}}})

	table := Reshape(raw)

	assert.Len(t, table.Records, 3)
}

func TestAggregate_EndToEnd(t *testing.T) {
	season := mustSeason(t, threeByThree())

	assert.Equal(t, 90.0, season.MatchDuration)
	assert.Equal(t, 2, season.Context.MatchesPlayed)
	assert.Equal(t, 2, season.Context.CurrentMatchday)
	require.Len(t, season.Players, 3)

	a := findPlayer(t, season.Players, "Alvaro")
	assert.Equal(t, 3.0, a.Convocations)
	assert.Equal(t, 180.0, a.TotalMinutes)
	assert.Equal(t, 180.0, a.MinutesStarter)
	assert.Equal(t, 2, a.MatchesPlayed)
	assert.Equal(t, 2, a.MatchesStarted)
	assert.Equal(t, 0, a.MatchesSubbed)
	assert.Equal(t, 2, a.MatchesCompleted)
	assert.Equal(t, 3.0, a.Goals)
	assert.Equal(t, a.Convocations*90, a.MinutesPossible)
	assert.Equal(t, 60.0, a.MinutesPerGoal)
	assert.Equal(t, 180.0, a.MinutesPerYellow)
	assert.InDelta(t, 180.0/270.0*100, a.PctPlayedOfAvailable, 1e-9)
	assert.InDelta(t, 100.0, a.PctPlayedOfTeamTotal, 1e-9)

	b := findPlayer(t, season.Players, "Bruno")
	assert.Equal(t, 90.0, b.TotalMinutes)
	assert.Equal(t, 1, b.MatchesStarted)
	assert.Equal(t, 1, b.MatchesSubbed)
	assert.Equal(t, 0, b.MatchesCompleted)
	assert.InDelta(t, 50.0, b.PctPlayedOfTeamTotal, 1e-9)
}

func TestAggregate_TotalMinutesIdentity(t *testing.T) {
	raw := sheet([]string{"1", "2", "3"}, allCodes, [][2]string{{"Hugo", "MED"}, {"Ivan", "DEL"}},
		[][][]string{
			{{"1", "45.5", "10.1", "", "", "", ""}, {"1", "0.3", "0.1", "", "", "", ""}, {"1", "90", "", "", "", "", ""}},
			{{"1", "", "33.3", "", "", "", ""}, {"1", "12.7", "0.2", "", "", "", ""}, {"1", "-5", "", "", "", "", ""}},
		})

	season := mustSeason(t, raw)

	for _, p := range season.Players {
		assert.Equal(t, p.MinutesStarter+p.MinutesSub, p.TotalMinutes, p.Name)
		assert.GreaterOrEqual(t, p.Convocations, 0.0)
		assert.GreaterOrEqual(t, p.MinutesStarter, 0.0)
		assert.GreaterOrEqual(t, p.MinutesSub, 0.0)
		assert.GreaterOrEqual(t, p.MatchesPlayed, 0)
	}
}

func TestAggregate_ZeroIncidentRatiosAreZero(t *testing.T) {
	season := mustSeason(t, threeByThree())

	c := findPlayer(t, season.Players, "Carlos")
	for name, v := range map[string]float64{
		"per goal":   c.MinutesPerGoal,
		"per yellow": c.MinutesPerYellow,
		"per red":    c.MinutesPerRed,
		"available":  c.PctPlayedOfAvailable,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), name)
		assert.Zero(t, v, name)
	}

	a := findPlayer(t, season.Players, "Alvaro")
	assert.Zero(t, a.MinutesPerRed)
}

func TestAggregate_RestWeekExcludedEvenWhenLast(t *testing.T) {
	raw := sheet([]string{"1", "2", "10"}, allCodes, [][2]string{{"Juan", "DEF"}},
		[][][]string{{
			{"1", "90", "", "", "", "", ""},
			{"1", "70", "", "", "", "", ""},
			{"1", "", "25", "", "", "", ""},
		}})

	season := mustSeason(t, raw)

	assert.Equal(t, 2, season.Context.MatchesPlayed)
	assert.Equal(t, 2, season.Context.CurrentMatchday)
}

func TestAggregate_NoActiveMatchdays(t *testing.T) {
	raw := sheet([]string{"1"}, allCodes, [][2]string{{"Kike", "POR"}},
		[][][]string{{{"1", "", "", "", "", "", ""}}})

	season := mustSeason(t, raw)

	assert.Equal(t, models.TeamSeasonContext{}, season.Context)
	assert.Zero(t, season.MatchDuration)
	k := findPlayer(t, season.Players, "Kike")
	assert.Zero(t, k.MatchesCompleted)
	assert.Zero(t, k.PctPlayedOfTeamTotal)
}

func TestAggregate_DropsPlaceholderRows(t *testing.T) {
	raw := sheet([]string{"1"}, allCodes,
		[][2]string{{"Luis", "MED"}, {"0", ""}, {"nan", "nan"}, {"", ""}, {"12", "DEL"}},
		[][][]string{
			{{"1", "90", "", "", "", "", ""}},
			{{"5", "450", "", "", "", "", ""}},
			{{"", "", "", "", "", "", ""}},
			{{"", "", "", "", "", "", ""}},
			{{"1", "90", "", "", "", "", ""}},
		})

	season := mustSeason(t, raw)

	require.Len(t, season.Players, 1)
	assert.Equal(t, "Luis", season.Players[0].Name)
	// placeholder rows still feed the match duration
	assert.Equal(t, 450.0, season.MatchDuration)
}

func TestAggregate_KeyedByNameAndPosition(t *testing.T) {
	raw := sheet([]string{"1"}, allCodes, [][2]string{{"Mario", "DEF"}, {"Mario", "DEL"}, {"Mario", "DEF"}},
		[][][]string{
			{{"1", "90", "", "", "", "", ""}},
			{{"1", "", "20", "", "", "", ""}},
			{{"1", "", "", "1", "", "", ""}},
		})

	season := mustSeason(t, raw)

	require.Len(t, season.Players, 2)
	assert.Equal(t, "DEF", season.Players[0].Position)
	assert.Equal(t, 2.0, season.Players[0].Convocations)
	assert.Equal(t, 1.0, season.Players[0].Goals)
	assert.Equal(t, "DEL", season.Players[1].Position)
}

func TestAggregate_MissingGoalsColumn(t *testing.T) {
	raw := sheet([]string{"1", "2"}, []string{"C_NC", "T", "S", "A", "DA", "R"}, [][2]string{{"Nico", "DEL"}},
		[][][]string{{{"1", "90", "", "", "", ""}, {"1", "90", "", "", "", ""}}})

	_, err := Aggregate(Reshape(raw))

	var structErr *models.StructureError
	require.True(t, errors.As(err, &structErr))
	assert.Equal(t, []string{"goals"}, structErr.MissingNames())
	assert.Contains(t, err.Error(), "goals")
}

func TestAggregate_BlankGoalsColumn(t *testing.T) {
	season := mustSeason(t, threeByThree())
	for _, p := range season.Players {
		if p.Name != "Alvaro" {
			assert.Zero(t, p.Goals, p.Name)
		}
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want models.Tier
	}{
		{0, models.TierLow},
		{29.99, models.TierLow},
		{30, models.TierMid},
		{30.01, models.TierMid},
		{70, models.TierMid},
		{70.01, models.TierHigh},
		{100, models.TierHigh},
		{250, models.TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.pct), "pct %v", tt.pct)
	}
}

func TestClassify_ThirtyIsNotLow(t *testing.T) {
	assert.NotEqual(t, models.TierLow, Classify(30.0))
}

func TestClassifyPlayers_IndependentTiers(t *testing.T) {
	players := []models.PlayerSeasonStats{
		{Name: "Oscar", PctPlayedOfAvailable: 90, PctPlayedOfTeamTotal: 20},
	}

	out := ClassifyPlayers(players)

	assert.Equal(t, models.TierHigh, out[0].Tier)
	assert.Equal(t, models.TierLow, out[0].TeamTier)
	assert.Equal(t, models.TierLow, players[0].Tier, "input must not be mutated")
}

func TestRun_Idempotent(t *testing.T) {
	raw := threeByThree()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := Run("Juvenil A", raw, now)
	require.NoError(t, err)
	second, err := Run("Juvenil A", raw, now)
	require.NoError(t, err)

	assert.Equal(t, first.Players, second.Players)
	assert.Equal(t, first.Context, second.Context)
	assert.Equal(t, first.MatchDuration, second.MatchDuration)
	assert.NotEmpty(t, first.ID)
}

func TestRun_StructureErrorNamesTeam(t *testing.T) {
	raw := sheet([]string{"1"}, []string{"T", "S"}, [][2]string{{"Pablo", "DEF"}},
		[][][]string{{{"90", ""}}})

	report, err := Run("Cadete B", raw, time.Now())

	assert.Nil(t, report)
	var structErr *models.StructureError
	require.True(t, errors.As(err, &structErr))
	assert.Equal(t, "Cadete B", structErr.Team)
	assert.Equal(t, []string{"convocations", "goals", "yellow", "double_yellow", "red"}, structErr.MissingNames())
}

func TestRun_TiersApplied(t *testing.T) {
	report, err := Run("Preferente", threeByThree(), time.Now())
	require.NoError(t, err)

	a, ok := report.Player(models.PlayerKey{Name: "Alvaro", Position: "DEL"})
	require.True(t, ok)
	assert.Equal(t, models.TierMid, a.Tier)
	assert.Equal(t, models.TierHigh, a.TeamTier)
}
