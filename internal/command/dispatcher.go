package command

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

const (
	// systemSender is the platform's own account. Its messages are never
	// treated as commands.
	systemSender = "RVRB"

	apology = "Sorry, that one didn't work out. 😅"
)

// Dispatcher recognizes +-prefixed chat commands and hands them to their
// registered handlers, asynchronously and in isolation from each other.
type Dispatcher struct {
	pub      Publisher
	exact    map[string]Handler
	prefixed map[string]Handler
}

func NewDispatcher(pub Publisher) *Dispatcher {
	return &Dispatcher{
		pub:      pub,
		exact:    make(map[string]Handler),
		prefixed: make(map[string]Handler),
	}
}

// Register binds a bare command (exact match, no arguments).
func (d *Dispatcher) Register(name string, h Handler) {
	d.exact[strings.ToLower(name)] = h
}

// RegisterPrefix binds an argument-taking command: "ask" matches "+ask <args>".
func (d *Dispatcher) RegisterPrefix(name string, h Handler) {
	d.prefixed[strings.ToLower(name)] = h
}

// Commands returns the sorted registered command names, argument commands
// marked with a trailing ellipsis.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.exact)+len(d.prefixed))
	for name := range d.exact {
		names = append(names, Prefix+name)
	}
	for name := range d.prefixed {
		names = append(names, Prefix+name+" …")
	}
	sort.Strings(names)
	return names
}

// Dispatch examines one chat message and, when it is a known command from a
// non-system sender, invokes its handler in a goroutine. Unknown commands are
// ignored without a reply; mistyped "+word" chat shorthand should not produce
// noise.
func (d *Dispatcher) Dispatch(ctx context.Context, sender, payload string) {
	if sender == systemSender {
		return
	}
	msg := strings.TrimSpace(payload)
	if !strings.HasPrefix(msg, Prefix) {
		return
	}
	body := strings.ToLower(strings.TrimPrefix(msg, Prefix))

	if h, ok := d.exact[body]; ok {
		d.invoke(ctx, h, Invocation{Command: body, Sender: sender})
		return
	}
	for name, h := range d.prefixed {
		if strings.HasPrefix(body, name+" ") {
			args := strings.TrimSpace(strings.TrimPrefix(body, name+" "))
			d.invoke(ctx, h, Invocation{Command: name, Args: args, Sender: sender})
			return
		}
	}
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, inv Invocation) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("command handler panicked", "command", inv.Command, "panic", r)
				d.pub.Push(apology)
			}
		}()
		if err := h.Handle(ctx, inv, d.pub.Push); err != nil {
			slog.Error("command handler failed", "command", inv.Command, "error", err)
			d.pub.Push(apology)
		}
	}()
}
