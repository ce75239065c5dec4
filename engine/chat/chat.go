// Package chat answers assistant messages for the case dashboard. Common
// questions are answered from a fixed rule table; everything else goes to a
// local language model behind a circuit breaker, with a canned reply when
// the model is unavailable.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/firtrack/firtrack-mvp/pkg/resilience"
)

// LLM generates a free-form completion for a prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// fallbackReply is returned when no rule matches and the model is down.
const fallbackReply = "I'm not sure how to answer that. Try asking something else."

// rules maps lowercase message substrings to canned replies. First match
// wins, in the order listed.
var rules = []struct {
	keyword string
	reply   string
}{
	{"hello", "Hello! How can I assist you with case records today?"},
	{"how are you", "I'm doing well, ready to help you track cases."},
	{"case details", "You can view case details by opening a case from the case list, or ask me with a case title."},
	{"search case", "Use the search bar to find cases by title, or tell me the title you are looking for."},
	{"goodbye", "Goodbye! Stay safe."},
}

// Responder answers chat messages.
type Responder struct {
	llm     LLM
	breaker *resilience.Breaker
	logger  *slog.Logger
}

// New creates a Responder. llm may be nil, in which case unmatched
// messages always get the fallback reply.
func New(llm LLM, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		llm:     llm,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		logger:  logger,
	}
}

// Reply answers msg. degraded is true when the reply is the canned
// fallback because the model was unavailable or failed. Reply never
// returns an error; a broken model must not break the dashboard.
func (r *Responder) Reply(ctx context.Context, msg string) (reply string, degraded bool) {
	normalized := strings.ToLower(strings.TrimSpace(msg))
	for _, rule := range rules {
		if strings.Contains(normalized, rule.keyword) {
			return rule.reply, false
		}
	}

	if r.llm == nil {
		return fallbackReply, true
	}

	var text string
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var genErr error
		text, genErr = r.llm.Generate(ctx, msg)
		return genErr
	})
	if err != nil {
		r.logger.Warn("chat model unavailable", "error", err)
		return fallbackReply, true
	}
	if strings.TrimSpace(text) == "" {
		return fallbackReply, true
	}
	return text, false
}
