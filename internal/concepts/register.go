package concepts

import "chatbrain/internal/lang"

// RegisterBuiltins installs the standard concept set. Registration errors
// accumulate on the registry's load-error list.
func RegisterBuiltins(reg *lang.Registry, botName string) {
	reg.RegisterConcept(NewGreeting(botName))
	reg.RegisterConcept(NewBotName(botName))
	reg.RegisterConcept(NewEcho())
}
