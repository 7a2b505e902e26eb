package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrTurnInFlight is returned when a turn is submitted while another one is
// still outstanding for the same session. The UI is expected to disable
// submissions while a turn is outstanding; this guard makes the rule hold
// even for misbehaving callers.
var ErrTurnInFlight = goerr.New("turn already in flight")

// Service owns all live conversation sessions. Sessions are in-memory only:
// the conversation log is client-local state mirrored server-side for the
// duration of a session, never persisted.
type Service struct {
	mu       sync.Mutex
	sessions map[model.SessionID]*Session
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[model.SessionID]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session with the given initial mode
func (s *Service) Create(mode types.Mode) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		id:           model.NewSessionID(),
		mode:         mode,
		lastActivity: s.now(),
	}
	s.sessions[sess.id] = sess
	return sess.snapshot()
}

func (s *Service) get(id model.SessionID) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "unknown session", goerr.V("session_id", id))
	}
	return sess, nil
}

// Get returns a read-only snapshot of the session
func (s *Service) Get(id model.SessionID) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.snapshot(), nil
}

// Delete removes a session and all of its state
func (s *Service) Delete(id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

// SetMode changes the declared mode. The mode persists across turns until
// changed again.
func (s *Service) SetMode(id model.SessionID, mode types.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.mode = mode
	sess.lastActivity = s.now()
	return nil
}

// UpdateTranscript stores the latest captured transcript. Continuous capture
// is an always-on producer; only the latest value matters, so the cell is
// overwritten on every update. Updates during an in-flight turn do not
// affect that turn: the engine snapshotted the cell at submit time.
func (s *Service) UpdateTranscript(id model.SessionID, text string, source types.MessageSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.transcript = text
	sess.transcriptSource = source
	sess.lastActivity = s.now()
	return nil
}

// TurnInput is the snapshot handed to the dialogue engine at submit time
type TurnInput struct {
	Mode       types.Mode
	Transcript string
	Source     types.MessageSource
}

// BeginTurn marks the session busy and snapshots the turn input. If the
// caller supplies a transcript it wins over the capture cell; otherwise the
// cell's current value is consumed. Returns ErrTurnInFlight if a turn is
// already outstanding.
func (s *Service) BeginTurn(id model.SessionID, transcript string, source types.MessageSource) (TurnInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return TurnInput{}, err
	}
	if sess.inFlight {
		return TurnInput{}, goerr.Wrap(ErrTurnInFlight, "submission rejected", goerr.V("session_id", id))
	}

	in := TurnInput{
		Mode:       sess.mode,
		Transcript: transcript,
		Source:     source,
	}
	if strings.TrimSpace(in.Transcript) == "" {
		in.Transcript = sess.transcript
		in.Source = sess.transcriptSource
	}

	sess.inFlight = true
	sess.lastActivity = s.now()
	return in, nil
}

// EndTurn commits the outcome of a turn: both conversation messages are
// appended, the proposal slot is replaced with the turn's own proposal (nil
// when the turn proposed nothing, which implicitly supersedes any unresolved
// prior proposal), the capture cell is consumed, and the busy mark cleared.
func (s *Service) EndTurn(id model.SessionID, userMsg, assistantMsg model.ConversationMessage, proposal *model.PendingProposal) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.appendMessage(userMsg)
	sess.appendMessage(assistantMsg)
	sess.proposal = copyProposal(proposal)
	sess.transcript = ""
	sess.transcriptSource = ""
	sess.inFlight = false
	sess.lastActivity = s.now()
	return sess.snapshot(), nil
}

// AbortTurn clears the busy mark without committing anything. Only used when
// a turn cannot even produce a fallback result, e.g. the session was deleted
// mid-flight.
func (s *Service) AbortTurn(id model.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.inFlight = false
	}
}

// Proposal returns the current pending proposal, or nil when none is staged
func (s *Service) Proposal(id model.SessionID) (*model.PendingProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return copyProposal(sess.proposal), nil
}

// ClearProposal drops the pending proposal after a confirm or dismiss
func (s *Service) ClearProposal(id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.proposal = nil
	sess.lastActivity = s.now()
	return nil
}

// PruneIdle removes sessions that have been inactive for longer than maxIdle
// and returns the number removed. A pending proposal never expires while its
// session lives; it only goes away with the whole session.
func (s *Service) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.inFlight {
			continue
		}
		if sess.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor prunes idle sessions on the given interval until ctx is done
func (s *Service) Janitor(ctx context.Context, interval, maxIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.PruneIdle(maxIdle); n > 0 {
				logging.From(ctx).Debug("pruned idle sessions", "count", n)
			}
		}
	}
}
