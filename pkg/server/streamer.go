package server

import (
	"context"
	"strings"
	"time"
)

// ChatMessage is one turn of conversation history sent by the client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenStreamer is the LLM fallback for inputs no keyword route claims.
// Implementations push text deltas through emit as they arrive; returning
// emit's error promptly keeps cancellation responsive.
type TokenStreamer interface {
	StreamTokens(ctx context.Context, messages []ChatMessage, emit func(delta string) error) error
}

// ScriptedStreamer replays a fixed reply word by word. It stands in for a
// real model backend in demos and tests.
type ScriptedStreamer struct {
	Reply string
	Delay time.Duration
}

func (s *ScriptedStreamer) StreamTokens(ctx context.Context, messages []ChatMessage, emit func(delta string) error) error {
	reply := s.Reply
	if reply == "" {
		reply = "I'm a scripted agent without a model behind me, but I heard you."
	}

	words := strings.Fields(reply)
	for i, word := range words {
		if s.Delay > 0 {
			select {
			case <-time.After(s.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		delta := word
		if i < len(words)-1 {
			delta += " "
		}
		if err := emit(delta); err != nil {
			return err
		}
	}
	return nil
}
