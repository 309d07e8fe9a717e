package client

import "time"

// recordToken accounts one content-delta event. TTFT is set exactly once
// per run, on the first delta; structural events never count as tokens.
func (s *Session) recordToken() {
	if s.metrics.TTFTMillis == nil && !s.runStart.IsZero() {
		ttft := time.Since(s.runStart).Milliseconds()
		s.metrics.TTFTMillis = &ttft
	}
	s.tokenCount++
	s.metrics.TotalTokens = s.tokenCount
}

// finishMetrics derives the run totals at RUN_FINISHED. The snapshot
// persists until the next run resets it.
func (s *Session) finishMetrics() {
	if s.runStart.IsZero() {
		return
	}
	elapsed := time.Since(s.runStart)
	s.metrics.TotalTimeMillis = elapsed.Milliseconds()
	if secs := elapsed.Seconds(); secs > 0 {
		s.metrics.TokensPerSec = float64(s.tokenCount) / secs
	}
}
