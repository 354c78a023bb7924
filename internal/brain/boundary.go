package brain

import "chatbrain/internal/logging"

// Responder delivers responses to the host application. The engine does not
// know or care how the message is rendered to a user.
type Responder interface {
	DoResponse(message, preText, postText string)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(message, preText, postText string)

// DoResponse calls f.
func (f ResponderFunc) DoResponse(message, preText, postText string) {
	f(message, preText, postText)
}

// Speaker is the optional speech boundary. It is invoked only by host code,
// never by the scheduler itself.
type Speaker interface {
	Say(text, voiceCode string) error
}

// NullSpeaker satisfies Speaker by logging the utterance.
type NullSpeaker struct{}

// Say logs the text and discards it.
func (NullSpeaker) Say(text, voiceCode string) error {
	logging.Speech("say (%s): %s", voiceCode, text)
	return nil
}
