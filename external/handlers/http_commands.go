package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foxseedlab/rvrbot/internal/command"
)

const (
	// imageEmitDelay paces multi-image replies so the room's chat is not
	// flooded in a single burst.
	imageEmitDelay = time.Second

	maxImageResults = 3
)

type askHandler struct {
	apiURL string
	client *http.Client
}

// newAskHandler answers "+ask <question>" through a JSON question endpoint.
func newAskHandler(apiURL string) command.Handler {
	return &askHandler{
		apiURL: apiURL,
		client: &http.Client{},
	}
}

func (h *askHandler) Handle(ctx context.Context, inv command.Invocation, emit func(string)) error {
	if inv.Args == "" {
		emit("Ask me something: +ask <question>")
		return nil
	}

	var out struct {
		Answer string `json:"answer"`
	}
	if err := postJSON(ctx, h.client, h.apiURL, map[string]string{"question": inv.Args}, &out); err != nil {
		return err
	}
	if out.Answer == "" {
		emit("I have no answer for that one.")
		return nil
	}
	emit(out.Answer)
	return nil
}

type imageHandler struct {
	apiURL    string
	client    *http.Client
	emitDelay time.Duration
}

// newImageHandler serves "+image <query>" from a JSON image-search endpoint,
// emitting each result URL with a delay between them.
func newImageHandler(apiURL string) command.Handler {
	return &imageHandler{
		apiURL:    apiURL,
		client:    &http.Client{},
		emitDelay: imageEmitDelay,
	}
}

func (h *imageHandler) Handle(ctx context.Context, inv command.Invocation, emit func(string)) error {
	if inv.Args == "" {
		emit("Tell me what to look for: +image <query>")
		return nil
	}

	var out struct {
		URLs []string `json:"urls"`
	}
	if err := postJSON(ctx, h.client, h.apiURL, map[string]string{"query": inv.Args}, &out); err != nil {
		return err
	}
	if len(out.URLs) == 0 {
		emit("No images found for that.")
		return nil
	}

	urls := out.URLs
	if len(urls) > maxImageResults {
		urls = urls[:maxImageResults]
	}
	for i, u := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.emitDelay):
			}
		}
		emit(u)
	}
	return nil
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
