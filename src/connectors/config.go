package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	InfoURL      string        `envconfig:"HYPERLIQUID_INFO_URL" default:"https://api.hyperliquid.xyz/info"`
	DashBaseURL  string        `envconfig:"HYPERDASH_BASE_URL" default:"https://hyperdash.info"`
	DataSource   string        `envconfig:"DATA_SOURCE" default:"api"` // api | scrape
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	FillLimit    int           `envconfig:"FILL_FETCH_LIMIT" default:"10"`
	UseChromedp  bool          `envconfig:"SCRAPE_RENDER_JS" default:"true"`
	ChromeBinary string        `envconfig:"CHROME_BINARY"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
