package squad

import (
	"context"
	"errors"

	"github.com/omarshaarawi/squadbot/internal/config"
	"github.com/omarshaarawi/squadbot/internal/models"
)

type SheetLoader interface {
	GetRawTable(ctx context.Context, gid string) (models.RawTable, error)
}

type API struct {
	loader  SheetLoader
	catalog config.Catalog
}

func NewAPI(loader SheetLoader, catalog config.Catalog) *API {
	return &API{loader: loader, catalog: catalog}
}

func (a *API) Teams() []string {
	return a.catalog.Names()
}

// ResolveTeam maps user input onto a configured team name.
func (a *API) ResolveTeam(query string) (string, bool) {
	return ResolveName(query, a.catalog.Names())
}

// GetRawTable loads the sheet of a configured team. A sheet without a usable
// header comes back as a *models.StructureError; any other failure, including
// an unknown team, is a *models.SourceUnavailableError.
func (a *API) GetRawTable(ctx context.Context, team string) (models.RawTable, error) {
	for _, t := range a.catalog {
		if t.Name != team {
			continue
		}
		raw, err := a.loader.GetRawTable(ctx, t.GID)
		var structErr *models.StructureError
		if errors.As(err, &structErr) {
			structErr.Team = team
			return models.RawTable{}, err
		}
		if err != nil {
			return models.RawTable{}, &models.SourceUnavailableError{Team: team, Err: err}
		}
		return raw, nil
	}
	return models.RawTable{}, &models.SourceUnavailableError{
		Team: team,
		Err:  errors.New("team not in catalog"),
	}
}
