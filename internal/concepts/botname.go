package concepts

import "chatbrain/internal/lang"

// BotName recognizes the bot's own name. On its own it answers with a
// light acknowledgement; preceded by a greeting it defers to the greeting
// concept by scoring below it.
type BotName struct {
	name string
}

// NewBotName creates the name concept for the given bot name.
func NewBotName(name string) *BotName {
	return &BotName{name: name}
}

func (b *BotName) Name() string { return "BotName" }

// RegisterHandlers binds the bot's name as a proper-noun trigger.
func (b *BotName) RegisterHandlers(reg *lang.Registry) error {
	if b.name == "" {
		return nil
	}
	return reg.AddConceptTriggerWordsFor(b.Name(), b.name+"^N-PER", b.onName)
}

func (b *BotName) onName(ctx *lang.ConceptHandlerContext) error {
	match := ctx.CurrentMatch()
	if match == nil {
		return nil
	}

	conf := match.Score
	if ctx.WasPrevious("hello") || ctx.WasPrevious("hi") || ctx.WasPrevious("hey") {
		// the greeting position carries the exchange; stay quiet
		conf *= 0.5
		ctx.AddIntentHandler(func(*lang.ConceptHandlerContext) error { return nil }, conf)
		return nil
	}
	ctx.AddIntentHandler(b.reply, conf)
	return nil
}

func (b *BotName) reply(ctx *lang.ConceptHandlerContext) error {
	ctx.Context.AddResponse("Yes, that's me. I'm " + b.name + ".")
	return nil
}
