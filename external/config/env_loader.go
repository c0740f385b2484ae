package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	internalconfig "github.com/foxseedlab/rvrbot/internal/config"
)

type envConfig struct {
	Env                  string `env:"ENV" envDefault:"production"`
	APIKey               string `env:"RVRB_API_KEY,required"`
	ChannelID            string `env:"RVRB_CHANNEL_ID,required"`
	BotName              string `env:"RVRB_BOT_NAME,required"`
	BotBio               string `env:"RVRB_BOT_BIO" envDefault:"Use +help to see available commands."`
	GatewayURLTemplate   string `env:"RVRB_WS_URL" envDefault:"wss://app.rvrb.one/ws-bot?apiKey=%s"`
	DatabaseURL          string `env:"DATABASE_URL"`
	NowPlayingWebhookURL string `env:"NOW_PLAYING_WEBHOOK_URL"`
	AskAPIURL            string `env:"ASK_API_URL"`
	ImageAPIURL          string `env:"IMAGE_API_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		APIKey:               raw.APIKey,
		ChannelID:            raw.ChannelID,
		BotName:              raw.BotName,
		BotBio:               raw.BotBio,
		GatewayURLTemplate:   raw.GatewayURLTemplate,
		DatabaseURL:          raw.DatabaseURL,
		NowPlayingWebhookURL: raw.NowPlayingWebhookURL,
		AskAPIURL:            raw.AskAPIURL,
		ImageAPIURL:          raw.ImageAPIURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
