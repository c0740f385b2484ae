package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/foxseedlab/rvrbot/internal/command"
)

const defaultWeatherBaseURL = "https://wttr.in"

type weatherHandler struct {
	baseURL string
	client  *http.Client
}

// newWeatherHandler answers "+weather [location]" with wttr.in's one-line
// report. Without a location the service guesses from the caller's address.
func newWeatherHandler() *weatherHandler {
	return &weatherHandler{
		baseURL: defaultWeatherBaseURL,
		client:  &http.Client{},
	}
}

func (h *weatherHandler) Handle(ctx context.Context, inv command.Invocation, emit func(string)) error {
	endpoint := h.baseURL + "/"
	if inv.Args != "" {
		endpoint += url.PathEscape(inv.Args)
	}
	endpoint += "?format=3"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	report := strings.TrimSpace(string(body))
	if report == "" {
		emit("The weather service had nothing to say.")
		return nil
	}
	emit(report)
	return nil
}
