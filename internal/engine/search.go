package engine

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a search term must survive before a
// lookup is issued.
const DefaultDebounce = 300 * time.Millisecond

// SearchFunc performs one backend lookup for a term.
type SearchFunc func(ctx context.Context, term string) ([]string, error)

// SearchUpdate is one emission from the search pipeline. The results always
// correspond to the most recently issued query; late responses from
// superseded lookups are never emitted.
type SearchUpdate struct {
	Term    string
	Results []string
	Err     error
}

// Searcher turns raw keystrokes into a debounced, deduplicated,
// switch-to-latest sequence of lookups. Each keystroke restarts the quiet
// period; a term identical to the previously emitted one is dropped; issuing
// a new lookup cancels interest in any in-flight one. Empty or
// whitespace-only terms resolve to an empty result list with no network call.
type Searcher struct {
	search   SearchFunc
	debounce time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	inputSeq    uint64 // invalidates timer callbacks superseded by a newer keystroke
	gen         uint64 // issuance order; stale lookup results are discarded
	lastEmitted string
	hasEmitted  bool
	cancel      context.CancelFunc

	updates chan SearchUpdate
}

// NewSearcher creates a search pipeline with the default debounce interval.
func NewSearcher(fn SearchFunc) *Searcher {
	return &Searcher{
		search:   fn,
		debounce: DefaultDebounce,
		updates:  make(chan SearchUpdate, 1),
	}
}

// WithDebounce overrides the quiet-period interval. Intended for tests.
func (s *Searcher) WithDebounce(d time.Duration) *Searcher {
	s.debounce = d
	return s
}

// Updates returns the channel the pipeline publishes on. Only the newest
// unconsumed update is retained.
func (s *Searcher) Updates() <-chan SearchUpdate {
	return s.updates
}

// Input feeds one keystroke's worth of text into the pipeline. It returns
// immediately; a lookup is only issued once no further keystroke arrives for
// the debounce interval.
func (s *Searcher) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputSeq++
	seq := s.inputSeq

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.emit(seq, text)
	})
}

// Reset abandons the pipeline's pending state: the debounce timer is
// stopped, any in-flight lookup is cancelled, the dedupe memory is cleared,
// and an empty update is published so consumers drop their visible results.
// Called when a result is selected.
func (s *Searcher) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputSeq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.supersedeLocked()
	s.lastEmitted = ""
	s.hasEmitted = false
	s.publishLocked(SearchUpdate{Results: []string{}})
}

// Close stops the pipeline. No further updates are published.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputSeq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.supersedeLocked()
}

// emit runs when the quiet period for a keystroke elapses.
func (s *Searcher) emit(seq uint64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer keystroke arrived while this callback was waiting on the lock.
	if seq != s.inputSeq {
		return
	}

	// Distinct-until-changed: the debounce window re-emitting the same text
	// must not trigger a duplicate read.
	if s.hasEmitted && text == s.lastEmitted {
		return
	}
	s.lastEmitted = text
	s.hasEmitted = true

	gen := s.supersedeLocked()

	if strings.TrimSpace(text) == "" {
		s.publishLocked(SearchUpdate{Term: text, Results: []string{}})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.lookup(ctx, gen, text)
}

// supersedeLocked invalidates any in-flight lookup and returns the new
// generation. Callers must hold mu.
func (s *Searcher) supersedeLocked() uint64 {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.gen
}

// lookup performs one backend search and publishes the outcome unless a
// newer query was issued in the meantime (last-write-wins by issuance order,
// not arrival order).
func (s *Searcher) lookup(ctx context.Context, gen uint64, term string) {
	results, err := s.search(ctx, term)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.publishLocked(SearchUpdate{Term: term, Results: results, Err: err})
}

// publishLocked replaces any unconsumed update with the given one.
// Callers must hold mu.
func (s *Searcher) publishLocked(u SearchUpdate) {
	select {
	case <-s.updates:
	default:
	}
	s.updates <- u
}
