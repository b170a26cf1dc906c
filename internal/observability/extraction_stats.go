// Package observability tracks extraction statistics across runs:
// which channels occur, how often passes fail, and how long decoding
// takes.
package observability

import (
	"sort"
	"sync"
	"time"

	"github.com/wellcore/wellcore/internal/errors"
)

// ExtractionStats aggregates per-pass outcomes. All methods are
// thread-safe, so batch runs can report from multiple goroutines.
type ExtractionStats struct {
	mu          sync.RWMutex
	channelFreq map[string]*ChannelStats
	errorFreq   map[string]int64
	window      time.Duration

	passes      int64
	frames      int64
	totalDecode time.Duration
}

// ChannelStats holds occurrence statistics for one mnemonic.
type ChannelStats struct {
	Mnemonic  string
	Frequency int64
	LastSeen  time.Time
}

// NewExtractionStats creates a tracker. window bounds how long an idle
// mnemonic survives Prune.
func NewExtractionStats(window time.Duration) *ExtractionStats {
	return &ExtractionStats{
		channelFreq: make(map[string]*ChannelStats),
		errorFreq:   make(map[string]int64),
		window:      window,
	}
}

// RecordPass records the outcome of one pass extraction. A nil err is a
// success; otherwise the error's code is counted.
func (e *ExtractionStats) RecordPass(frames int, decodeTime time.Duration, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.passes++
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = "UNKNOWN"
		}
		e.errorFreq[code]++
		return
	}
	e.frames += int64(frames)
	e.totalDecode += decodeTime
}

// RecordChannel counts one occurrence of a mnemonic.
func (e *ExtractionStats) RecordChannel(mnemonic string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats, exists := e.channelFreq[mnemonic]
	if !exists {
		stats = &ChannelStats{Mnemonic: mnemonic}
		e.channelFreq[mnemonic] = stats
	}
	stats.Frequency++
	stats.LastSeen = time.Now()
}

// TopChannels returns the n most frequent mnemonics, descending.
func (e *ExtractionStats) TopChannels(n int) []ChannelStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if n <= 0 || len(e.channelFreq) == 0 {
		return []ChannelStats{}
	}

	stats := make([]ChannelStats, 0, len(e.channelFreq))
	for _, s := range e.channelFreq {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Frequency != stats[j].Frequency {
			return stats[i].Frequency > stats[j].Frequency
		}
		return stats[i].Mnemonic < stats[j].Mnemonic
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// ErrorCounts returns a copy of the per-code failure counters.
func (e *ExtractionStats) ErrorCounts() map[string]int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]int64, len(e.errorFreq))
	for code, count := range e.errorFreq {
		out[code] = count
	}
	return out
}

// Summary returns pass count, total frames, and mean decode time per
// successful pass.
func (e *ExtractionStats) Summary() (passes, frames int64, meanDecode time.Duration) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var failed int64
	for _, count := range e.errorFreq {
		failed += count
	}
	succeeded := e.passes - failed
	if succeeded > 0 {
		meanDecode = e.totalDecode / time.Duration(succeeded)
	}
	return e.passes, e.frames, meanDecode
}

// Prune removes mnemonics not seen within the window.
func (e *ExtractionStats) Prune() {
	e.mu.Lock()
	defer e.mu.Unlock()

	threshold := time.Now().Add(-e.window)
	for mnemonic, stats := range e.channelFreq {
		if stats.LastSeen.Before(threshold) {
			delete(e.channelFreq, mnemonic)
		}
	}
}
