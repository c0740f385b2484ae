// Package collab implements the turn-taking collaborative-story mode layered
// over plain chat. While a story is active every chat message is consumed
// here: single characters from alternating contributors grow the story, the
// termination keyword flushes it, and everything else — commands included —
// is ignored until the story ends.
package collab

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// ActivationCommand starts a story. At most one story may be active at a
	// time, room-wide.
	ActivationCommand = "+story"

	// terminationKeyword closes the story and flushes the accumulated text.
	terminationKeyword = "done"

	// assistGate limits how often the bot may append filler of each kind.
	assistGate = 5 * time.Second

	wordAssistChance     = 0.25
	sentenceAssistChance = 0.10

	noticeStarted       = "📖 A story begins! Add one letter at a time. Say \"done\" to finish."
	noticeAlreadyActive = "📖 A story is already in progress."
	noticeNotYourTurn   = "📖 Not twice in a row — let someone else add a letter."
)

var (
	wordFillers     = []string{"e", "s", "t", "ing", "ed"}
	sentenceFillers = []string{". ", "! ", "? ", ", and "}
)

// Publisher broadcasts story progress to the room.
type Publisher interface {
	Push(text string)
}

// Arbiter gates chat messages between the story session and ordinary command
// dispatch. It is owned by the process, not by a connection, so an active
// story survives reconnects.
type Arbiter struct {
	pub  Publisher
	now  func() time.Time
	roll func() float64

	active             bool
	accumulated        strings.Builder
	lastContributor    string
	lastWordAssist     time.Time
	lastSentenceAssist time.Time
}

func NewArbiter(pub Publisher) *Arbiter {
	return &Arbiter{
		pub:  pub,
		now:  time.Now,
		roll: rand.Float64,
	}
}

// Active reports whether a story is in progress.
func (a *Arbiter) Active() bool {
	return a.active
}

// Offer hands one chat message to the arbiter. It returns true when the
// message was consumed and must not reach the command dispatcher.
func (a *Arbiter) Offer(sender, payload string) bool {
	msg := strings.TrimSpace(payload)

	if !a.active {
		if strings.EqualFold(msg, ActivationCommand) {
			a.active = true
			a.accumulated.Reset()
			a.lastContributor = ""
			a.pub.Push(noticeStarted)
			return true
		}
		return false
	}

	if strings.EqualFold(msg, ActivationCommand) {
		a.pub.Push(noticeAlreadyActive)
		return true
	}

	if strings.EqualFold(msg, terminationKeyword) {
		a.pub.Push("📖 The end: " + a.accumulated.String())
		a.active = false
		a.accumulated.Reset()
		a.lastContributor = ""
		return true
	}

	r, ok := singleStoryRune(msg)
	if !ok {
		// Multi-character noise and stray punctuation are dropped so the
		// story stays free of accidental command leakage.
		return true
	}

	if sender == a.lastContributor {
		a.pub.Push(noticeNotYourTurn)
		return true
	}

	a.accumulated.WriteRune(r)
	a.lastContributor = sender
	a.maybeAssist()
	a.pub.Push("📖 " + a.accumulated.String())
	return true
}

// maybeAssist appends bot filler under a time-gated random policy: short
// word-completion fragments, or sentence punctuation, each at most once per
// five seconds.
func (a *Arbiter) maybeAssist() {
	now := a.now()
	if now.Sub(a.lastWordAssist) >= assistGate && a.roll() < wordAssistChance {
		a.accumulated.WriteString(wordFillers[rand.Intn(len(wordFillers))])
		a.lastWordAssist = now
		return
	}
	if now.Sub(a.lastSentenceAssist) >= assistGate && a.roll() < sentenceAssistChance {
		a.accumulated.WriteString(sentenceFillers[rand.Intn(len(sentenceFillers))])
		a.lastSentenceAssist = now
	}
}

// singleStoryRune reports whether msg is exactly one rune from the accepted
// story character class.
func singleStoryRune(msg string) (rune, bool) {
	if utf8.RuneCountInString(msg) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(msg)
	if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(".,!?'", r) {
		return r, true
	}
	return 0, false
}
