package tracker

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Interval   time.Duration `envconfig:"TRACK_INTERVAL" default:"10m"`
	RunTimeout time.Duration `envconfig:"TRACK_RUN_TIMEOUT" default:"60s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
