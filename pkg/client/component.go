package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ag-ui/agentstream/pkg/core"
)

// ComponentPrefix marks message content carrying a structured UI payload
// in the form COMPONENT:<Type>:<JSON>.
const ComponentPrefix = "COMPONENT:"

// ParseComponent extracts a structured component from sealed message
// content. The type is the substring up to the first colon after the
// prefix; everything after that colon is the JSON payload, which may
// itself legally contain colons.
//
// Returns (nil, nil) when the content is not component-encoded at all,
// and (nil, *core.ComponentParseError) when it carries the prefix but the
// payload is malformed; callers seal such messages as plain visible text.
func ParseComponent(content string) (*Component, error) {
	if !strings.HasPrefix(content, ComponentPrefix) {
		return nil, nil
	}

	rest := content[len(ComponentPrefix):]
	sep := strings.Index(rest, ":")
	if sep <= 0 {
		return nil, &core.ComponentParseError{
			Raw: content,
			Err: fmt.Errorf("missing component type"),
		}
	}

	ctype := rest[:sep]
	payload := rest[sep+1:]

	var data any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, &core.ComponentParseError{Raw: content, Err: err}
	}

	return &Component{Type: ctype, Data: data}, nil
}
