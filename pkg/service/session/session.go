package session

import (
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Session is one conversation session. It owns the mutable per-conversation
// state: the declared mode, the append-only conversation log, the pending
// proposal, and the latest-transcript cell fed by continuous capture. All
// mutation goes through its methods; the zero value is not usable.
type Session struct {
	id model.SessionID

	// guarded by mu in Service; sessions are only touched while holding
	// the per-session lock acquired through Service methods
	mode             types.Mode
	messages         []model.ConversationMessage
	proposal         *model.PendingProposal
	transcript       string
	transcriptSource types.MessageSource
	inFlight         bool
	lastActivity     time.Time
}

// ID returns the session identifier
func (s *Session) ID() model.SessionID {
	return s.id
}

// Snapshot is a read-only view of a session returned to callers.
type Snapshot struct {
	ID           model.SessionID
	Mode         types.Mode
	Messages     []model.ConversationMessage
	Proposal     *model.PendingProposal
	LastActivity time.Time
}

func copyProposal(p *model.PendingProposal) *model.PendingProposal {
	if p == nil {
		return nil
	}
	copied := *p
	if p.Memory.People != nil {
		copied.Memory.People = append([]string(nil), p.Memory.People...)
	}
	return &copied
}

func (s *Session) snapshot() Snapshot {
	msgs := make([]model.ConversationMessage, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		ID:           s.id,
		Mode:         s.mode,
		Messages:     msgs,
		Proposal:     copyProposal(s.proposal),
		LastActivity: s.lastActivity,
	}
}

func (s *Session) appendMessage(msg model.ConversationMessage) model.ConversationMessage {
	msg.Seq = len(s.messages)
	s.messages = append(s.messages, msg)
	return msg
}

// ErrNotFound is returned when a session does not exist or has been pruned
var ErrNotFound = goerr.New("session not found")
