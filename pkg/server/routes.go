package server

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ag-ui/agentstream/pkg/core"
	"github.com/ag-ui/agentstream/pkg/core/events"
)

// Structured command prefixes, checked before any free-text phrase.
const (
	executePlanPrefix  = "EXECUTE_PLAN:"
	improveStatePrefix = "IMPROVE_STATE:"
)

var greetingPattern = regexp.MustCompile(`(?i)^\s*(hello|hi|hey|yo|good (morning|afternoon|evening))\b`)

func matchWeather(input string) bool {
	return strings.Contains(strings.ToLower(input), "weather")
}

func matchChecklist(input string) bool {
	lower := strings.ToLower(input)
	for _, phrase := range []string{"how to", "plan for", "checklist", "steps to"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func matchDocSearch(input string) bool {
	lower := strings.ToLower(input)
	for _, phrase := range []string{"search", "find document", "look up"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func matchUIAction(input string) bool {
	return len(ParseUIActions(input)) > 0
}

func matchGreeting(input string) bool {
	return greetingPattern.MatchString(input)
}

// emitTextMessage streams one assistant message, paced by the router
// delay. Returns core.ErrStreamClosed once the consumer is gone.
func (r *Router) emitTextMessage(ctx context.Context, em *Emitter, chunks ...string) error {
	msgID := events.GenerateMessageID()
	if !em.Emit(events.NewTextMessageStartEvent(msgID, events.WithRole("assistant"))) {
		return core.ErrStreamClosed
	}
	for _, chunk := range chunks {
		if chunk == "" {
			continue
		}
		if err := r.pace(ctx); err != nil {
			return err
		}
		if !em.Emit(events.NewTextMessageContentEvent(msgID, chunk)) {
			return core.ErrStreamClosed
		}
	}
	if !em.Emit(events.NewTextMessageEndEvent(msgID)) {
		return core.ErrStreamClosed
	}
	return nil
}

func (r *Router) pace(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(r.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wordChunks splits text into small delta-sized chunks so canned routes
// stream the way an LLM would.
func wordChunks(text string, wordsPerChunk int) []string {
	words := strings.Fields(text)
	if wordsPerChunk <= 0 {
		wordsPerChunk = 3
	}
	var chunks []string
	for i := 0; i < len(words); i += wordsPerChunk {
		end := i + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if end < len(words) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// --- weather -------------------------------------------------------------

// weatherCard is the WeatherCard component payload.
type weatherCard struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    int    `json:"humidity"`
	WindSpeed   int    `json:"windSpeed"`
	FeelsLike   int    `json:"feelsLike"`
	IsDay       bool   `json:"isDay"`
}

// weatherFor returns mock conditions with per-location variation.
func weatherFor(location string) weatherCard {
	card := weatherCard{
		Location:    titleCase(location),
		Temperature: 22,
		Condition:   "Sunny",
		Humidity:    45,
		WindSpeed:   12,
		FeelsLike:   24,
		IsDay:       true,
	}

	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "mumbai"):
		card.Temperature, card.Condition, card.Humidity, card.WindSpeed, card.FeelsLike, card.IsDay = 32, "Humid", 85, 8, 38, false
	case strings.Contains(lower, "london"):
		card.Temperature, card.Condition, card.Humidity, card.WindSpeed, card.FeelsLike = 15, "Cloudy", 60, 18, 14
	case strings.Contains(lower, "new york"):
		card.Temperature, card.Condition, card.Humidity, card.WindSpeed, card.FeelsLike = 18, "Partly Cloudy", 55, 22, 17
	case strings.Contains(lower, "snow"), strings.Contains(lower, "antarctica"):
		card.Temperature, card.Condition, card.Humidity, card.WindSpeed, card.FeelsLike = -5, "Snowy", 80, 30, -12
	case strings.Contains(lower, "rain"):
		card.Temperature, card.Condition, card.Humidity, card.WindSpeed, card.FeelsLike, card.IsDay = 20, "Rainy", 90, 15, 19, false
	}
	return card
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// weatherLocation pulls the location out of phrases like
// "what's the weather in Mumbai?".
func weatherLocation(input string) string {
	lower := strings.ToLower(input)
	idx := strings.LastIndex(lower, " in ")
	if idx < 0 {
		return "San Francisco"
	}
	loc := strings.TrimSpace(input[idx+4:])
	loc = strings.TrimRight(loc, "?!. ")
	if loc == "" {
		return "San Francisco"
	}
	return loc
}

// handleWeather answers with a WeatherCard component. The payload travels
// as a single content delta carrying the sentinel-prefixed form, so the
// client seals the message with an attached component and empty content.
func (r *Router) handleWeather(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	card := weatherFor(weatherLocation(input))
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal weather card: %w", err)
	}
	return r.emitTextMessage(ctx, em, fmt.Sprintf("COMPONENT:WeatherCard:%s", payload))
}

// --- checklist -----------------------------------------------------------

type checklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type checklistCard struct {
	Title string          `json:"title"`
	Items []checklistItem `json:"items"`
}

func checklistTopic(input string) string {
	lower := strings.ToLower(input)
	for _, phrase := range []string{"how to ", "plan for ", "checklist for ", "steps to "} {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			topic := strings.TrimSpace(input[idx+len(phrase):])
			return strings.TrimRight(topic, "?!. ")
		}
	}
	return "your task"
}

func (r *Router) handleChecklist(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	topic := checklistTopic(input)
	card := checklistCard{
		Title: fmt.Sprintf("Plan: %s", topic),
		Items: []checklistItem{
			{Text: fmt.Sprintf("Clarify the goal for %s", topic)},
			{Text: "Break the work into small steps"},
			{Text: "Gather what you need before starting"},
			{Text: "Work through the steps in order"},
			{Text: "Review the result and adjust"},
		},
	}
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	return r.emitTextMessage(ctx, em, fmt.Sprintf("COMPONENT:Checklist:%s", payload))
}

// --- document search -----------------------------------------------------

// searchCorpus mirrors the mock results the original demo tools shipped.
var searchCorpus = map[string]string{
	"python":    "Python is a high-level programming language known for its simplicity and readability.",
	"ai":        "Artificial Intelligence (AI) is the simulation of human intelligence by machines.",
	"langchain": "LangChain is a framework for developing applications powered by language models.",
}

func searchQuery(input string) string {
	lower := strings.ToLower(input)
	for _, phrase := range []string{"search for ", "look up ", "search "} {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			q := strings.TrimSpace(input[idx+len(phrase):])
			return strings.TrimRight(q, "?!. ")
		}
	}
	return strings.TrimSpace(input)
}

func searchResult(query string) string {
	lower := strings.ToLower(query)
	for key, result := range searchCorpus {
		if strings.Contains(lower, key) {
			return result
		}
	}
	return fmt.Sprintf("Search results for '%s': Found 3 relevant articles about this topic.", query)
}

// handleDocSearch simulates a deterministic tool invocation: the full
// TOOL_CALL_START/ARGS/END/RESULT sequence followed by a text summary.
func (r *Router) handleDocSearch(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	query := searchQuery(input)
	toolID := events.GenerateToolCallID()
	args := map[string]any{"query": query}

	if !em.Emit(events.NewToolCallStartEvent(toolID, "search_documents", events.WithToolArgs(args))) {
		return core.ErrStreamClosed
	}
	argsJSON, _ := json.Marshal(args)
	if !em.Emit(events.NewToolCallArgsEvent(toolID, string(argsJSON))) {
		return core.ErrStreamClosed
	}

	if err := r.pace(ctx); err != nil {
		return err
	}

	result := searchResult(query)
	if !em.Emit(events.NewToolCallEndEvent(toolID, events.WithToolResult(result))) {
		return core.ErrStreamClosed
	}
	if !em.Emit(events.NewToolCallResultEvent(toolID, result)) {
		return core.ErrStreamClosed
	}

	summary := fmt.Sprintf("Here's what I found: %s", result)
	return r.emitTextMessage(ctx, em, wordChunks(summary, 3)...)
}

// --- UI actions ----------------------------------------------------------

var uiActionConfirmations = map[string]string{
	"changeBackgroundColor": "Background color updated.",
	"changeTheme":           "Theme switched.",
	"showNotification":      "Notification sent.",
	"resetUI":               "UI reset to defaults.",
}

func (r *Router) handleUIAction(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	var confirmations []string
	for _, action := range ParseUIActions(input) {
		if !req.AllowsUIAction(action.Action) {
			r.log.WithField("action", action.Action).Debug("client did not advertise UI action")
			continue
		}
		if !em.Emit(events.NewUIActionEvent(action.Action, action.Args)) {
			return core.ErrStreamClosed
		}
		if msg, ok := uiActionConfirmations[action.Action]; ok {
			confirmations = append(confirmations, msg)
		}
	}

	text := "Done! " + strings.Join(confirmations, " ")
	if len(confirmations) == 0 {
		text = "That UI action isn't available in this client."
	}
	return r.emitTextMessage(ctx, em, wordChunks(text, 3)...)
}

// --- greeting ------------------------------------------------------------

func (r *Router) handleGreeting(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	text := "Hello! I can look up the weather, build planning checklists, search documents, and adjust the UI for you. What would you like to do?"
	return r.emitTextMessage(ctx, em, wordChunks(text, 3)...)
}

// --- execute plan --------------------------------------------------------

type planPayload struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

func parsePlan(input string) planPayload {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), executePlanPrefix))

	var plan planPayload
	if err := json.Unmarshal([]byte(raw), &plan); err == nil && len(plan.Steps) > 0 {
		return plan
	}

	// Plain-text fallback: semicolon-separated steps.
	for _, step := range strings.Split(raw, ";") {
		if step = strings.TrimSpace(step); step != "" {
			plan.Steps = append(plan.Steps, step)
		}
	}
	return plan
}

func (r *Router) handleExecutePlan(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	plan := parsePlan(input)
	if len(plan.Steps) == 0 {
		return r.emitTextMessage(ctx, em, "I couldn't find any steps in that plan. Send EXECUTE_PLAN: followed by JSON {\"steps\": [...]} or a semicolon-separated list.")
	}

	name := plan.Name
	if name == "" {
		name = "plan"
	}

	toolID := events.GenerateToolCallID()
	args := map[string]any{"name": name, "stepCount": len(plan.Steps)}
	if !em.Emit(events.NewToolCallStartEvent(toolID, "execute_plan", events.WithToolArgs(args))) {
		return core.ErrStreamClosed
	}
	argsJSON, _ := json.Marshal(plan)
	if !em.Emit(events.NewToolCallArgsEvent(toolID, string(argsJSON))) {
		return core.ErrStreamClosed
	}

	var lines []string
	for i, step := range plan.Steps {
		if err := r.pace(ctx); err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%d. %s — done\n", i+1, step))
	}

	result := fmt.Sprintf("%d steps executed", len(plan.Steps))
	if !em.Emit(events.NewToolCallEndEvent(toolID, events.WithToolResult(result))) {
		return core.ErrStreamClosed
	}
	if !em.Emit(events.NewToolCallResultEvent(toolID, result)) {
		return core.ErrStreamClosed
	}

	chunks := append([]string{fmt.Sprintf("Executing %s:\n", name)}, lines...)
	return r.emitTextMessage(ctx, em, chunks...)
}

// --- improve state -------------------------------------------------------

func (r *Router) handleImproveState(ctx context.Context, em *Emitter, req *RunRequest, input string) error {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), improveStatePrefix))

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return r.emitTextMessage(ctx, em, "I couldn't parse that state document. Send IMPROVE_STATE: followed by a JSON object.")
	}

	doc["improved"] = true
	doc["improvedAt"] = time.Now().UTC().Format(time.RFC3339)

	state, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal improved state: %w", err)
	}
	if !em.Emit(events.NewStateUpdateEvent(state)) {
		return core.ErrStreamClosed
	}

	// Bump a revision counter incrementally on top of the snapshot.
	revision := 1
	if prev, ok := doc["revision"].(float64); ok {
		revision = int(prev) + 1
	}
	delta := []events.JSONPatchOperation{{Op: "add", Path: "/revision", Value: revision}}
	if !em.Emit(events.NewStateDeltaEvent(delta)) {
		return core.ErrStreamClosed
	}

	return r.emitTextMessage(ctx, em, wordChunks("I've tidied up the shared state and bumped its revision.", 3)...)
}
