// Package concepts ships the built-in concept registrations: a greeting
// exchange, recognition of the bot's own name, and a low-confidence echo
// fallback. Hosts register their own concepts the same way.
package concepts

import (
	"fmt"

	"chatbrain/internal/lang"
)

const (
	greetingWordKey      = "greeting.word"
	greetingAddressedKey = "greeting.addressed"
)

// Greeting reacts to common salutations. A greeting followed by the bot's
// name scores higher than a bare greeting.
type Greeting struct {
	botName string
}

// NewGreeting creates the greeting concept. botName may be empty.
func NewGreeting(botName string) *Greeting {
	return &Greeting{botName: botName}
}

func (g *Greeting) Name() string { return "Greeting" }

// RegisterHandlers binds the salutation trigger words.
func (g *Greeting) RegisterHandlers(reg *lang.Registry) error {
	return reg.AddConceptTriggerWordsFor(g.Name(),
		"hello^INTJ,hi^INTJ,hey^INTJ,greetings^INTJ,howdy^INTJ", g.onGreeting)
}

func (g *Greeting) onGreeting(ctx *lang.ConceptHandlerContext) error {
	match := ctx.CurrentMatch()
	if match == nil {
		return nil
	}

	conf := match.Score
	// intent handlers run after the walk, so neighbor facts observed here
	// travel through the shared context
	if g.botName != "" && ctx.IsNext(g.botName) {
		conf = clampConfidence(conf + 0.25)
		ctx.Context.Set(greetingAddressedKey, true)
	}
	ctx.Context.Set(greetingWordKey, match.Context.Item().GroupKey())
	ctx.AddIntentHandler(g.reply, conf)
	return nil
}

func (g *Greeting) reply(ctx *lang.ConceptHandlerContext) error {
	word := "Hello"
	if v, ok := ctx.Context.Get(greetingWordKey); ok {
		if s, ok := v.(string); ok && s != "" {
			word = capitalize(s)
		}
	}
	if addressed, ok := ctx.Context.Get(greetingAddressedKey); ok && addressed == true {
		ctx.Context.AddResponse(fmt.Sprintf("%s! You remembered my name.", word))
		return nil
	}
	ctx.Context.AddResponse(fmt.Sprintf("%s to you too!", word))
	return nil
}

func clampConfidence(c float64) float64 {
	if c > 1 {
		return 1
	}
	return c
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
