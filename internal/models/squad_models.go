package models

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

type StatField int

const (
	Convocations StatField = iota
	MinutesStarter
	MinutesSub
	Goals
	Yellow
	DoubleYellow
	Red
)

// StatFields is the closed set of per-matchday fields a squad sheet carries,
// in sheet order.
var StatFields = []StatField{Convocations, MinutesStarter, MinutesSub, Goals, Yellow, DoubleYellow, Red}

var statFieldNames = map[StatField]string{
	Convocations:   "convocations",
	MinutesStarter: "minutes_starter",
	MinutesSub:     "minutes_sub",
	Goals:          "goals",
	Yellow:         "yellow",
	DoubleYellow:   "double_yellow",
	Red:            "red",
}

var statFieldCodes = map[string]StatField{
	"C_NC":         Convocations,
	"CONVOCATIONS": Convocations,
	"T":            MinutesStarter,
	"S":            MinutesSub,
	"G":            Goals,
	"A":            Yellow,
	"DA":           DoubleYellow,
	"R":            Red,
}

func (f StatField) String() string {
	if name, ok := statFieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseStatField maps a sheet column code (C_NC, T, S, G, A, DA, R) to its field.
func ParseStatField(code string) (StatField, bool) {
	f, ok := statFieldCodes[strings.ToUpper(strings.TrimSpace(code))]
	return f, ok
}

// FieldSet records which stat fields have at least one column in a sheet.
type FieldSet map[StatField]bool

// Missing returns the required fields absent from the set, in sheet order.
func (s FieldSet) Missing() []StatField {
	var missing []StatField
	for _, f := range StatFields {
		if !s[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

type Matchday struct {
	Label   string
	Ordinal int
	// Numbered is false when the label carries no matchday number, such as
	// a friendly or a cup tie column.
	Numbered bool
}

// NewMatchday parses the ordinal out of a matchday header such as "7", "J7"
// or "Jornada 7". Labels without a number get ordinal 0 and are not numbered.
func NewMatchday(label string) Matchday {
	label = strings.TrimSpace(label)
	digits := strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	digits = strings.TrimSuffix(digits, ".0")
	ordinal, err := strconv.Atoi(digits)
	if err != nil || ordinal < 0 {
		return Matchday{Label: label}
	}
	return Matchday{Label: label, Ordinal: ordinal, Numbered: true}
}

type RawColumn struct {
	Matchday string
	Field    string
}

type RawRow struct {
	Name     string
	Position string
	Cells    []string
}

// RawTable is a squad sheet as exported: two identity columns followed by
// matchday-major stat columns. Cells[i] belongs to Columns[i].
type RawTable struct {
	Columns []RawColumn
	Rows    []RawRow
}

type PlayerKey struct {
	Name     string
	Position string
}

type LongRecord struct {
	Player         PlayerKey
	Matchday       Matchday
	Convocations   float64
	MinutesStarter float64
	MinutesSub     float64
	Goals          float64
	Yellow         float64
	DoubleYellow   float64
	Red            float64
	TotalMinutes   float64
	Played         bool
	WasStarter     bool
	WasSub         bool
	PlayedFull     bool
}

// LongTable is the reshaped form of a RawTable, one record per player and matchday.
type LongTable struct {
	Records       []LongRecord
	Matchdays     []Matchday
	Present       FieldSet
	MatchDuration float64
}

type TeamSeasonContext struct {
	CurrentMatchday int
	MatchesPlayed   int
}

type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	}
	return "unknown"
}

// Label is the traffic-light name shown to coaches.
func (t Tier) Label() string {
	switch t {
	case TierLow:
		return "🔴 Red (<30%)"
	case TierMid:
		return "🟠 Orange (30-70%)"
	case TierHigh:
		return "🟢 Green (>70%)"
	}
	return "Unknown"
}

type PlayerSeasonStats struct {
	Name                 string
	Position             string
	Convocations         float64
	MatchesPlayed        int
	MatchesStarted       int
	MatchesSubbed        int
	MatchesCompleted     int
	TotalMinutes         float64
	MinutesStarter       float64
	MinutesSub           float64
	Goals                float64
	Yellow               float64
	DoubleYellow         float64
	Red                  float64
	MinutesPossible      float64
	MinutesPerGoal       float64
	MinutesPerYellow     float64
	MinutesPerRed        float64
	PctPlayedOfAvailable float64
	PctPlayedOfTeamTotal float64
	Tier                 Tier
	TeamTier             Tier
}

func (p PlayerSeasonStats) Key() PlayerKey {
	return PlayerKey{Name: p.Name, Position: p.Position}
}

// SeasonReport is the result of one full pipeline run for a team.
type SeasonReport struct {
	ID            string
	Team          string
	Records       []LongRecord
	Players       []PlayerSeasonStats
	Context       TeamSeasonContext
	MatchDuration float64
	ComputedAt    time.Time
}

// Player looks up a season row by its key.
func (r *SeasonReport) Player(key PlayerKey) (PlayerSeasonStats, bool) {
	for _, p := range r.Players {
		if p.Key() == key {
			return p, true
		}
	}
	return PlayerSeasonStats{}, false
}

type FormPoint struct {
	Matchday Matchday
	Minutes  float64
}

type FormWindow struct {
	Points         []FormPoint
	WindowMinutes  float64
	WindowCapacity float64
	WindowPct      float64
}

type TimelineEntry struct {
	Matchday       Matchday
	MinutesStarter float64
	MinutesSub     float64
	Goals          float64
	Yellow         float64
}

type Leader int

const (
	LeaderNone Leader = iota
	LeaderA
	LeaderB
)

type MetricComparison struct {
	Metric         string
	A              float64
	B              float64
	Delta          float64
	HigherIsBetter bool
	Leader         Leader
}

type HeadToHead struct {
	A       PlayerSeasonStats
	B       PlayerSeasonStats
	Metrics []MetricComparison
}

type RadarAxis struct {
	Metric string
	Value  float64
}

type EfficiencyEntry struct {
	Name         string
	Position     string
	TotalMinutes float64
	Goals        float64
	GoalsPer90   float64
}

type TeamSummary struct {
	Team            string
	Goals           float64
	Yellows         float64
	SquadSize       int
	CurrentMatchday int
	MatchesPlayed   int
	MatchDuration   float64
	Tiers           map[Tier]int
	TeamTiers       map[Tier]int
}
