package controller

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DisplayTimezone string `envconfig:"DISPLAY_TIMEZONE" default:"UTC"`
	OrderLimit      int    `envconfig:"ORDER_DISPLAY_LIMIT" default:"8"`
	FillLimit       int    `envconfig:"FILL_DISPLAY_LIMIT" default:"5"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
