package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Config struct {
	Env                  string
	APIKey               string
	ChannelID            string
	BotName              string
	BotBio               string
	GatewayURLTemplate   string
	DatabaseURL          string
	NowPlayingWebhookURL string
	AskAPIURL            string
	ImageAPIURL          string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if !strings.Contains(c.GatewayURLTemplate, "%s") {
		return fmt.Errorf("RVRB_WS_URL must contain a %%s placeholder for the api key")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "RVRB_API_KEY", value: c.APIKey},
		{name: "RVRB_CHANNEL_ID", value: c.ChannelID},
		{name: "RVRB_BOT_NAME", value: c.BotName},
		{name: "RVRB_WS_URL", value: c.GatewayURLTemplate},
	}
}

// GatewayEndpoint resolves the WebSocket URL with the access key applied.
func (c *Config) GatewayEndpoint() string {
	return fmt.Sprintf(c.GatewayURLTemplate, url.QueryEscape(c.APIKey))
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
