// Package command routes +-prefixed chat messages to registered handlers.
// Handlers are external collaborators: the dispatcher knows how to invoke
// them and how to contain their failures, never what they do.
package command

import "context"

// Prefix marks a chat message as a command.
const Prefix = "+"

// Invocation carries everything a handler learns about one command.
type Invocation struct {
	Command string
	Args    string
	Sender  string
}

// Handler executes one chat command. Each call to emit is forwarded to the
// room as a chat message, in call order; handlers may keep emitting over time
// and manage their own pacing. A returned error (or panic) is replaced by a
// single generic apology so one handler's failure never reaches another.
type Handler interface {
	Handle(ctx context.Context, inv Invocation, emit func(text string)) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, inv Invocation, emit func(text string)) error

func (f HandlerFunc) Handle(ctx context.Context, inv Invocation, emit func(text string)) error {
	return f(ctx, inv, emit)
}

// Publisher forwards handler output to the room.
type Publisher interface {
	Push(text string)
}
