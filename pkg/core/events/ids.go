package events

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateRunID generates a unique run identifier
func GenerateRunID() string {
	return generateID("run")
}

// GenerateThreadID generates a unique thread identifier
func GenerateThreadID() string {
	return generateID("thread")
}

// GenerateMessageID generates a unique message identifier
func GenerateMessageID() string {
	return generateID("msg")
}

// GenerateToolCallID generates a unique tool call identifier
func GenerateToolCallID() string {
	return generateID("tool")
}

// generateID produces short prefixed identifiers in the "run-1a2b3c4d"
// form used across AG-UI demo backends.
func generateID(prefix string) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%x", prefix, id[:4])
}
