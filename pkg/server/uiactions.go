package server

import (
	"regexp"
	"strings"
)

// UIAction is one front-end action recognized in free text.
type UIAction struct {
	Action string
	Args   map[string]any
}

var validColors = map[string]bool{
	"blue": true, "red": true, "green": true, "yellow": true,
	"purple": true, "pink": true, "orange": true, "black": true,
	"white": true, "gray": true, "cyan": true, "magenta": true,
}

var colorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)change.*background.*(?:to|color)\s*["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)change_background_color\s*\(\s*["']?(\w+)["']?\s*\)`),
	regexp.MustCompile(`(?i)background.*(?:to|=)\s*["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)(?:set|make).*background\s+(\w+)`),
}

var notifyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)show_notification\s*\(\s*["'](.+?)["']`),
	regexp.MustCompile(`(?i)notification.*saying\s+["']?(.+?)["']?\s*$`),
}

// ParseUIActions recognizes UI actions in free text. It is the fallback
// for LLM output that describes an action instead of invoking one, and it
// also backs the keyword route for direct commands.
func ParseUIActions(text string) []UIAction {
	var actions []UIAction
	lower := strings.ToLower(text)

	for _, p := range colorPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if validColors[m[1]] {
			actions = append(actions, UIAction{
				Action: "changeBackgroundColor",
				Args:   map[string]any{"color": m[1]},
			})
			break
		}
	}

	switch {
	case strings.Contains(lower, "light theme"), strings.Contains(lower, "light mode"),
		strings.Contains(lower, "change_theme('light')"), strings.Contains(lower, `change_theme("light")`):
		actions = append(actions, UIAction{Action: "changeTheme", Args: map[string]any{"theme": "light"}})
	case strings.Contains(lower, "dark theme"), strings.Contains(lower, "dark mode"),
		strings.Contains(lower, "change_theme('dark')"), strings.Contains(lower, `change_theme("dark")`):
		actions = append(actions, UIAction{Action: "changeTheme", Args: map[string]any{"theme": "dark"}})
	}

	for _, p := range notifyPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		actions = append(actions, UIAction{
			Action: "showNotification",
			Args:   map[string]any{"message": m[1], "type": "success"},
		})
		break
	}

	if strings.Contains(lower, "reset_ui") ||
		(strings.Contains(lower, "reset") && strings.Contains(lower, "ui")) {
		actions = append(actions, UIAction{Action: "resetUI", Args: map[string]any{}})
	}

	return actions
}
