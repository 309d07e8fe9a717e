package server

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HandlerFunc produces the body of a run: text, tool, UI-action and
// state-sync events. The surrounding RUN_STARTED/RUN_FINISHED/DONE
// envelope is owned by the server pipeline.
type HandlerFunc func(ctx context.Context, em *Emitter, req *RunRequest, input string) error

// Route is one entry in the keyword router's priority chain.
type Route struct {
	Name   string
	Match  func(input string) bool
	Handle HandlerFunc
}

// Router matches raw user text against an ordered list of predicates;
// first match wins. The order is a deliberate priority chain: structured
// command prefixes come before free-text keyword phrases, which come
// before generic greeting detection. Reordering changes behavior for
// overlapping trigger phrases ("how to check the weather" must hit the
// weather route, not the checklist route) and is covered by tests.
type Router struct {
	routes []Route
	delay  time.Duration
	log    *logrus.Entry
}

// NewRouter creates a router with the default route chain. delay paces
// streamed text chunks; zero disables pacing.
func NewRouter(log *logrus.Entry, delay time.Duration) *Router {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	r := &Router{log: log, delay: delay}
	r.routes = []Route{
		{Name: "execute-plan", Match: matchPrefix(executePlanPrefix), Handle: r.handleExecutePlan},
		{Name: "improve-state", Match: matchPrefix(improveStatePrefix), Handle: r.handleImproveState},
		{Name: "weather", Match: matchWeather, Handle: r.handleWeather},
		{Name: "checklist", Match: matchChecklist, Handle: r.handleChecklist},
		{Name: "doc-search", Match: matchDocSearch, Handle: r.handleDocSearch},
		{Name: "ui-action", Match: matchUIAction, Handle: r.handleUIAction},
		{Name: "greeting", Match: matchGreeting, Handle: r.handleGreeting},
	}
	return r
}

// Dispatch runs the first matching route. Returns false when no route
// matched and the caller should fall through to the LLM streamer.
func (r *Router) Dispatch(ctx context.Context, em *Emitter, req *RunRequest, input string) (bool, error) {
	for _, route := range r.routes {
		if !route.Match(input) {
			continue
		}
		r.log.WithField("route", route.Name).Debug("keyword route matched")
		return true, route.Handle(ctx, em, req, input)
	}
	return false, nil
}

// MatchName returns the name of the first matching route, or "".
func (r *Router) MatchName(input string) string {
	for _, route := range r.routes {
		if route.Match(input) {
			return route.Name
		}
	}
	return ""
}

func matchPrefix(prefix string) func(string) bool {
	return func(input string) bool {
		return strings.HasPrefix(strings.TrimSpace(input), prefix)
	}
}
