package app

import (
	"context"
	"log"

	"quizbank-service/internal/domain"
)

// SessionStore abstracts how live sessions are held (in-memory today).
type SessionStore interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// SnapshotStore persists serialized session snapshots across relaunches
// (in-memory, Redis, etc).
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap domain.SessionSnapshot) error
	Load(ctx context.Context, sessionID string) (domain.SessionSnapshot, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// QuizService contains the quiz use cases: one method per state machine
// transition, each followed by a best-effort snapshot persist. Transitions
// themselves are synchronous and atomic; persistence is fire-and-forget from
// the state machine's point of view.
type QuizService struct {
	sessions  SessionStore
	snapshots SnapshotStore
	banks     BankRepository
}

func NewQuizService(sessions SessionStore, snapshots SnapshotStore, banks BankRepository) *QuizService {
	return &QuizService{sessions: sessions, snapshots: snapshots, banks: banks}
}

// Attach loads the bank and binds it to the caller's session, creating the
// session if needed. A previously persisted snapshot is restored into a fresh
// session first; the snapshot never carries the bank, so the reload here is
// what makes a restored session usable again.
func (s *QuizService) Attach(ctx context.Context, sessionID, bankID string) (domain.SessionSnapshot, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}

	_, existed := s.sessions.Get(sessionID)
	session := s.sessions.GetOrCreate(sessionID)
	if !existed {
		if snap, ok, err := s.snapshots.Load(ctx, sessionID); err != nil {
			log.Printf("session %s: restore failed: %v", sessionID, err)
		} else if ok {
			session.Restore(snap)
		}
	}
	session.StoreBank(bank)
	return session.Snapshot(), nil
}

// Detach drops the live session, persisting its final snapshot.
func (s *QuizService) Detach(ctx context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.persist(ctx, session)
	s.sessions.Delete(sessionID)
}

// SelectNode picks the node to quiz on.
func (s *QuizService) SelectNode(ctx context.Context, sessionID, nodeID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		return session.SelectNode(nodeID)
	})
}

// SetOptions replaces the session configuration.
func (s *QuizService) SetOptions(ctx context.Context, sessionID string, options domain.Options) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		session.SetOptions(options)
		return nil
	})
}

// ResetOptions restores the default configuration.
func (s *QuizService) ResetOptions(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		session.ResetOptions()
		return nil
	})
}

// Start begins the quiz for the current selection.
func (s *QuizService) Start(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		return session.Start()
	})
}

// Answer records a final answer; questionIdx overrides the current index
// when non-nil.
func (s *QuizService) Answer(ctx context.Context, sessionID string, questionIdx *int, finalAnswer *domain.FinalAnswer) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		if questionIdx != nil {
			return session.AnswerAt(*questionIdx, finalAnswer)
		}
		return session.Answer(finalAnswer)
	})
}

// Next advances to the next question or ends the session.
func (s *QuizService) Next(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		return session.Next()
	})
}

// Prev steps back one question.
func (s *QuizService) Prev(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		return session.Prev()
	})
}

// Restart re-runs the quiz against the same selection with a fresh shuffle.
func (s *QuizService) Restart(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		return session.Restart()
	})
}

// Quit clears the running session and returns to node selection.
func (s *QuizService) Quit(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	return s.transition(ctx, sessionID, func(session *Session) error {
		session.Quit()
		return nil
	})
}

// Results tallies the correct answers of the session.
func (s *QuizService) Results(ctx context.Context, sessionID string) (int, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return session.Results()
}

// Session exposes the live session for transports that render from it.
func (s *QuizService) Session(sessionID string) (*Session, bool) {
	return s.sessions.Get(sessionID)
}

func (s *QuizService) transition(ctx context.Context, sessionID string, apply func(*Session) error) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	if err := apply(session); err != nil {
		return domain.SessionSnapshot{}, err
	}
	s.persist(ctx, session)
	return session.Snapshot(), nil
}

func (s *QuizService) persist(ctx context.Context, session *Session) {
	if err := s.snapshots.Save(ctx, session.ID(), session.Snapshot()); err != nil {
		log.Printf("session %s: persist failed: %v", session.ID(), err)
	}
}
