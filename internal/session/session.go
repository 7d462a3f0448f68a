// Package session keeps the state of one user's active search. A session is
// owned by its caller; every write that results from a search carries the
// token handed out when that search began, so answers for a superseded search
// are rejected instead of overwriting newer state.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/ranking"
)

type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeMultiple:
		return ModeMultiple, nil
	}
	return "", fmt.Errorf("unknown search mode %q", s)
}

var (
	ErrStaleSearch = errors.New("search was superseded")
	ErrNotFound    = errors.New("session not found")
	ErrNoOptions   = errors.New("no option set to select from")
)

// Token identifies one search generation.
type Token uint64

type Session struct {
	id string

	mu         sync.Mutex
	generation Token
	inFlight   bool
	mode       Mode
	lastError  string
	touched    time.Time

	outbound *models.TripResultLeg
	ret      *models.TripResultLeg

	outboundOptions  *models.MultiOptionResult
	returnOptions    *models.MultiOptionResult
	selectedOutbound *int
	selectedReturn   *int

	now func() time.Time
}

func newSession(id string, now func() time.Time) *Session {
	return &Session{
		id:      id,
		mode:    ModeSingle,
		touched: now(),
		now:     now,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Begin starts a new search generation. Prior results are dropped so no stale
// result is shown while the new search runs.
func (s *Session) Begin(mode Mode) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.inFlight = true
	s.mode = mode
	s.resetResults()
	s.touched = s.now()
	return s.generation
}

func (s *Session) CommitSingle(t Token, outbound models.TripResultLeg, ret *models.TripResultLeg) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.generation {
		return ErrStaleSearch
	}
	s.inFlight = false
	s.mode = ModeSingle
	s.outbound = &outbound
	if ret != nil {
		r := *ret
		s.ret = &r
	}
	s.touched = s.now()
	return nil
}

func (s *Session) CommitMultiple(t Token, outbound models.MultiOptionResult, ret *models.MultiOptionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.generation {
		return ErrStaleSearch
	}
	s.inFlight = false
	s.mode = ModeMultiple
	s.outboundOptions = &outbound
	if ret != nil {
		r := *ret
		s.returnOptions = &r
	}
	s.touched = s.now()
	return nil
}

// Fail ends the search identified by t without committing any result.
func (s *Session) Fail(t Token, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.generation {
		return ErrStaleSearch
	}
	s.inFlight = false
	s.resetResults()
	if cause != nil {
		s.lastError = cause.Error()
	}
	s.touched = s.now()
	return nil
}

// Clear drops all results and invalidates any outstanding search.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.inFlight = false
	s.resetResults()
	s.touched = s.now()
}

// Select records which option the user picked for each leg. A nil id clears
// that leg's pick.
func (s *Session) Select(outboundID, returnID *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outboundOptions == nil {
		return ErrNoOptions
	}
	if outboundID != nil {
		if _, err := ranking.FindOption(s.outboundOptions.Options, *outboundID); err != nil {
			return err
		}
	}
	if returnID != nil {
		if s.returnOptions == nil {
			return fmt.Errorf("%w: no return options", models.ErrOptionNotFound)
		}
		if _, err := ranking.FindOption(s.returnOptions.Options, *returnID); err != nil {
			return err
		}
	}

	s.selectedOutbound = copyInt(outboundID)
	s.selectedReturn = copyInt(returnID)
	s.touched = s.now()
	return nil
}

// Current reports whether t still identifies the latest search.
func (s *Session) Current(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t == s.generation
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched, s.inFlight
}

func (s *Session) resetResults() {
	s.lastError = ""
	s.outbound = nil
	s.ret = nil
	s.outboundOptions = nil
	s.returnOptions = nil
	s.selectedOutbound = nil
	s.selectedReturn = nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
