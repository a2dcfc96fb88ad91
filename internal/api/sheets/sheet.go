package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/omarshaarawi/squadbot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// GetRawTable fetches a squad tab and parses its double header.
func (a *API) GetRawTable(ctx context.Context, gid string) (models.RawTable, error) {
	records, err := a.client.ExportCSV(ctx, gid)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("fetching sheet %s: %w", gid, err)
	}
	return ParseGrid(records)
}

// ParseGrid turns an exported grid into a RawTable. Row 0 holds matchday
// labels, row 1 stat codes. Merged matchday cells export as blanks, so a
// blank label repeats the one before it. The first two columns identify the
// player whatever their header says.
func ParseGrid(records [][]string) (models.RawTable, error) {
	if len(records) < 2 {
		return models.RawTable{}, &models.StructureError{Reason: "expected two header rows"}
	}
	outer, inner := records[0], records[1]
	width := max(len(outer), len(inner))
	if width < 2 {
		return models.RawTable{}, &models.StructureError{Reason: "expected name and position columns"}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var table models.RawTable
	matchday := ""
	for i := 2; i < width; i++ {
		if label := cell(outer, i); label != "" {
			matchday = label
		}
		table.Columns = append(table.Columns, models.RawColumn{
			Matchday: matchday,
			Field:    cell(inner, i),
		})
	}

	for _, rec := range records[2:] {
		row := models.RawRow{
			Name:     cell(rec, 0),
			Position: cell(rec, 1),
			Cells:    make([]string, len(table.Columns)),
		}
		for i := range table.Columns {
			row.Cells[i] = cell(rec, i+2)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
