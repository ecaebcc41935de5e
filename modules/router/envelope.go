package router

import (
	"time"

	"github.com/example/chat-relay/domain/relay"
)

// BuildEnvelope stamps a chat message with its sender and the wall-clock
// send time formatted as HH:MM:SS.
func BuildEnvelope(name, text string, now time.Time) relay.Message {
	return relay.Message{
		Name: name,
		Text: text,
		Time: now.Format("15:04:05"),
	}
}
