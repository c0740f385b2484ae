// Package handlers provides the bot's built-in chat commands and binds them
// to a dispatcher.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/foxseedlab/rvrbot/internal/command"
	"github.com/foxseedlab/rvrbot/internal/config"
)

// Register binds every built-in command. The HTTP-backed commands are only
// registered when their endpoint is configured, so +help never advertises a
// command that cannot answer.
func Register(d *command.Dispatcher, cfg *config.Config) {
	d.Register("ping", command.HandlerFunc(pingHandler))
	d.Register("hey", command.HandlerFunc(heyHandler))
	d.Register("hello", command.HandlerFunc(helloHandler))
	d.Register("help", helpHandler(d))

	weather := newWeatherHandler()
	d.Register("weather", weather)
	d.RegisterPrefix("weather", weather)

	if cfg.AskAPIURL != "" {
		d.RegisterPrefix("ask", newAskHandler(cfg.AskAPIURL))
	}
	if cfg.ImageAPIURL != "" {
		d.RegisterPrefix("image", newImageHandler(cfg.ImageAPIURL))
	}
}

func pingHandler(_ context.Context, _ command.Invocation, emit func(string)) error {
	emit("pong! 🏓")
	return nil
}

func heyHandler(_ context.Context, _ command.Invocation, emit func(string)) error {
	emit("you")
	return nil
}

func helloHandler(_ context.Context, inv command.Invocation, emit func(string)) error {
	emit(fmt.Sprintf("Hello %s! 👋", inv.Sender))
	return nil
}

func helpHandler(d *command.Dispatcher) command.Handler {
	return command.HandlerFunc(func(_ context.Context, _ command.Invocation, emit func(string)) error {
		emit("Available commands: " + strings.Join(d.Commands(), ", "))
		return nil
	})
}
