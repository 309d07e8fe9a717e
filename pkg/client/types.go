package client

import "encoding/json"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Component is a structured UI payload extracted from a sealed message.
type Component struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Message is one ordered conversation entry. Content only grows while the
// message is open; the end event seals it, except for the one-time
// component extraction which moves sentinel-encoded content into Component.
type Message struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	IsComplete bool       `json:"isComplete"`
	Component  *Component `json:"component,omitempty"`
}

// ToolStatus is the lifecycle state of a tracked tool call.
type ToolStatus string

const (
	ToolStatusPending  ToolStatus = "pending"
	ToolStatusRunning  ToolStatus = "running"
	ToolStatusComplete ToolStatus = "complete"
	ToolStatusError    ToolStatus = "error"
)

// ToolCall is the single tracked in-flight tool invocation. Args holds the
// latest full snapshot of the argument JSON, not an accumulation of diffs.
type ToolCall struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Args   string     `json:"args"`
	Result string     `json:"result,omitempty"`
	Status ToolStatus `json:"status"`
}

// Metrics is the per-run latency/throughput snapshot. Values persist until
// the next run resets them. TotalTokens counts content-delta events, a
// throughput proxy rather than a true tokenizer count.
type Metrics struct {
	TTFTMillis      *int64  `json:"ttft,omitempty"`
	TotalTokens     int     `json:"totalTokens"`
	TotalTimeMillis int64   `json:"totalTime"`
	TokensPerSec    float64 `json:"throughput"`
}

// Phase is the session run state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseStreaming
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseStreaming:
		return "streaming"
	default:
		return "idle"
	}
}

// UIActionHandler executes one named UI action on behalf of the front end.
type UIActionHandler func(args map[string]any)

// SharedState is the externally defined JSON document the agent may
// overwrite wholesale; the session holds a last-writer-wins copy.
type SharedState = json.RawMessage
