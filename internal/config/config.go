package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	Sheets      Sheets
	Cache       Cache
	Report      Report
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":80"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type Sheets struct {
	SpreadsheetID string  `envconfig:"SPREADSHEET_ID" required:"true"`
	BaseURL       string  `envconfig:"SHEETS_BASE_URL" default:"https://docs.google.com"`
	Teams         Catalog `envconfig:"TEAMS" default:"Preferente:1039572604,Juvenil A:689736481,Juvenil B:1086115076,Cadete A:325576234,Cadete B:0,Infantil A:1612741636,Infantil B:1284204032"`
}

type Cache struct {
	TTL time.Duration `envconfig:"CACHE_TTL" default:"60s"`
}

type Report struct {
	Cron     string `envconfig:"REPORT_CRON" default:"30 7 * * 1"`
	Timezone string `envconfig:"TIMEZONE" default:"Europe/Madrid"`
}

// Team maps a squad name to the gid of its tab in the spreadsheet.
type Team struct {
	Name string
	GID  string
}

// Catalog is the ordered list of squads, configured as "name:gid,name:gid".
type Catalog []Team

func (c *Catalog) Decode(value string) error {
	parsed, err := ParseCatalog(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseCatalog(value string) (Catalog, error) {
	var catalog Catalog
	seen := map[string]bool{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		i := strings.LastIndex(pair, ":")
		if i <= 0 || i == len(pair)-1 {
			return nil, fmt.Errorf("invalid team entry %q, want name:gid", pair)
		}
		name := strings.TrimSpace(pair[:i])
		gid := strings.TrimSpace(pair[i+1:])
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("duplicate team %q", name)
		}
		seen[strings.ToLower(name)] = true
		catalog = append(catalog, Team{Name: name, GID: gid})
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("team catalog is empty")
	}
	return catalog, nil
}

func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, t := range c {
		names[i] = t.Name
	}
	return names
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if _, err := cron.ParseStandard(c.Report.Cron); err != nil {
		return nil, fmt.Errorf("invalid REPORT_CRON %q: %w", c.Report.Cron, err)
	}
	if c.Cache.TTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	return &c, nil
}
