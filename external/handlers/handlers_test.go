package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/rvrbot/internal/command"
	"github.com/foxseedlab/rvrbot/internal/config"
)

type collectingEmit struct {
	lines []string
}

func (c *collectingEmit) emit(text string) {
	c.lines = append(c.lines, text)
}

type nopPublisher struct{}

func (nopPublisher) Push(string) {}

func TestPingHandler(t *testing.T) {
	var out collectingEmit
	if err := pingHandler(context.Background(), command.Invocation{}, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || out.lines[0] != "pong! 🏓" {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestHeyHandler(t *testing.T) {
	var out collectingEmit
	if err := heyHandler(context.Background(), command.Invocation{}, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || out.lines[0] != "you" {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestHelloHandler_GreetsSender(t *testing.T) {
	var out collectingEmit
	inv := command.Invocation{Sender: "alice"}
	if err := helloHandler(context.Background(), inv, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || out.lines[0] != "Hello alice! 👋" {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestHelpHandler_ListsRegisteredCommands(t *testing.T) {
	d := command.NewDispatcher(nopPublisher{})
	Register(d, &config.Config{})

	var out collectingEmit
	h := helpHandler(d)
	if err := h.Handle(context.Background(), command.Invocation{}, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 {
		t.Fatalf("expected one line, got %v", out.lines)
	}
	for _, want := range []string{"+ping", "+hey", "+hello", "+help", "+weather"} {
		if !strings.Contains(out.lines[0], want) {
			t.Fatalf("help output missing %s: %s", want, out.lines[0])
		}
	}
	if strings.Contains(out.lines[0], "+ask") {
		t.Fatalf("unconfigured command must not be advertised: %s", out.lines[0])
	}
}

func TestRegister_HTTPCommandsRequireConfiguration(t *testing.T) {
	d := command.NewDispatcher(nopPublisher{})
	Register(d, &config.Config{AskAPIURL: "http://example.test/ask"})

	listed := strings.Join(d.Commands(), " ")
	if !strings.Contains(listed, "+ask") {
		t.Fatalf("expected +ask to be registered, got %s", listed)
	}
	if strings.Contains(listed, "+image") {
		t.Fatalf("expected +image to stay unregistered, got %s", listed)
	}
}

func TestAskHandler_EmitsAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if in.Question != "what is jazz" {
			t.Fatalf("unexpected question: %q", in.Question)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "improvisation"})
	}))
	defer server.Close()

	var out collectingEmit
	h := newAskHandler(server.URL)
	inv := command.Invocation{Command: "ask", Args: "what is jazz", Sender: "alice"}
	if err := h.Handle(context.Background(), inv, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || out.lines[0] != "improvisation" {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestAskHandler_EmptyArgsPrompts(t *testing.T) {
	var out collectingEmit
	h := newAskHandler("http://example.test/never-called")
	if err := h.Handle(context.Background(), command.Invocation{Command: "ask"}, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || !strings.Contains(out.lines[0], "+ask") {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestAskHandler_Non2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := newAskHandler(server.URL)
	inv := command.Invocation{Command: "ask", Args: "anything"}
	if err := h.Handle(context.Background(), inv, func(string) {}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestImageHandler_PacedEmission(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"urls": {"http://img/1", "http://img/2", "http://img/3", "http://img/4"},
		})
	}))
	defer server.Close()

	h := newImageHandler(server.URL).(*imageHandler)
	h.emitDelay = 0

	var out collectingEmit
	inv := command.Invocation{Command: "image", Args: "cats"}
	if err := h.Handle(context.Background(), inv, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != maxImageResults {
		t.Fatalf("expected %d results, got %v", maxImageResults, out.lines)
	}
	if out.lines[0] != "http://img/1" {
		t.Fatalf("unexpected first result: %v", out.lines)
	}
}

func TestImageHandler_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"urls": {}})
	}))
	defer server.Close()

	h := newImageHandler(server.URL).(*imageHandler)
	var out collectingEmit
	inv := command.Invocation{Command: "image", Args: "nothing"}
	if err := h.Handle(context.Background(), inv, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || !strings.Contains(out.lines[0], "No images") {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestWeatherHandler_OneLineReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "3" {
			t.Fatalf("expected format=3, got %s", r.URL.RawQuery)
		}
		if r.URL.Path != "/Tokyo" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("Tokyo: ☀️ +30°C\n"))
	}))
	defer server.Close()

	h := newWeatherHandler()
	h.baseURL = server.URL

	var out collectingEmit
	inv := command.Invocation{Command: "weather", Args: "Tokyo"}
	if err := h.Handle(context.Background(), inv, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || out.lines[0] != "Tokyo: ☀️ +30°C" {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}

func TestWeatherHandler_NoLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("Somewhere: 🌧 +12°C"))
	}))
	defer server.Close()

	h := newWeatherHandler()
	h.baseURL = server.URL

	var out collectingEmit
	if err := h.Handle(context.Background(), command.Invocation{Command: "weather"}, out.emit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.lines) != 1 || out.lines[0] != "Somewhere: 🌧 +12°C" {
		t.Fatalf("unexpected output: %v", out.lines)
	}
}
