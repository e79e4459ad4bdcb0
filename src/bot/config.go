package bot

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Token          string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	WebhookURL     string        `envconfig:"WEBHOOK_URL"` // empty = long polling
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	Debug          bool          `envconfig:"BOT_DEBUG" default:"false"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
