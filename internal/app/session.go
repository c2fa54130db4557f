package app

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"quizbank-service/internal/domain"
)

const defaultQuestionLimit = 10

// Session is the quiz session state machine. It owns the loaded question
// bank, the current selection, the session configuration, and the per-session
// snapshot of question IDs, randomized answer orders, and recorded final
// answers. Exactly one logical caller drives transitions; the mutex only
// guards against the store and the persistence path observing torn state.
//
// Missing prerequisite state is a caller bug and fails loudly. The two
// expected refusals, finishing with unanswered questions and stepping before
// the first question, are silent no-ops.
type Session struct {
	id  string
	mu  sync.RWMutex
	rnd *rand.Rand

	bank           *domain.QuestionBank
	phase          domain.Phase
	selectedNodeID string
	options        domain.Options

	questionIDs               []string
	answerIDsByQuestionIdx    [][]string
	finalAnswersByQuestionIdx []*domain.FinalAnswer
	currentQuestionIdx        int
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSessionWithRand(id, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithRand is test-only for deterministic shuffles.
func NewSessionWithRand(id string, rnd *rand.Rand) *Session {
	return newSessionWithRand(id, rnd)
}

func newSessionWithRand(id string, rnd *rand.Rand) *Session {
	return &Session{
		id:      id,
		rnd:     rnd,
		phase:   domain.PhaseMainMenu,
		options: domain.DefaultOptions(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// StoreBank replaces the question bank wholesale. The bank is normalized
// (duplicate siblings purged, IDs assigned) before it is stored, so callers
// may pass either freshly imported or pre-normalized data.
func (s *Session) StoreBank(bank domain.QuestionBank) {
	domain.NormalizeBank(&bank)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank = &bank
}

// HasBank reports whether a question bank has been loaded.
func (s *Session) HasBank() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bank != nil
}

// SelectNode picks the subtree to quiz on and moves to the configure phase.
// The question limit defaults to the lesser of the node's question count and
// ten.
func (s *Session) SelectNode(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bank == nil {
		return domain.ErrNoQuestionData
	}
	node, ok := domain.FindNodeByID(s.bank.Children, nodeID)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrNodeNotFound, nodeID)
	}

	limit := len(domain.CollectQuestions(node))
	if limit > defaultQuestionLimit {
		limit = defaultQuestionLimit
	}
	s.options.QuestionLimit = limit
	s.selectedNodeID = nodeID
	s.phase = domain.PhaseConfigure
	return nil
}

// SetOptions replaces the session configuration wholesale.
func (s *Session) SetOptions(options domain.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = options
}

// ResetOptions restores the defaults, recomputing the question limit for the
// currently selected node if one is set.
func (s *Session) ResetOptions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = domain.DefaultOptions()
	if s.bank == nil || s.selectedNodeID == "" {
		return
	}
	node, ok := domain.FindNodeByID(s.bank.Children, s.selectedNodeID)
	if !ok {
		return
	}
	limit := len(domain.CollectQuestions(node))
	if limit > defaultQuestionLimit {
		limit = defaultQuestionLimit
	}
	s.options.QuestionLimit = limit
}

// Start begins a session against the current selection and options: resolve
// the questions, apply the optional shuffles, truncate to the question limit,
// and capture the per-question answer order once. Answer orders are never
// re-shuffled mid-session; stored answers correlate by index.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

// Restart re-runs the start procedure against the same selection and options,
// with a fresh shuffle.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

func (s *Session) startLocked() error {
	if s.bank == nil {
		return fmt.Errorf("%w: no question bank", domain.ErrMissingData)
	}
	if s.selectedNodeID == "" {
		return fmt.Errorf("%w: no node selected", domain.ErrMissingData)
	}
	node, ok := domain.FindNodeByID(s.bank.Children, s.selectedNodeID)
	if !ok {
		return fmt.Errorf("%w: selected node %q not in bank", domain.ErrMissingData, s.selectedNodeID)
	}

	questions := domain.CollectQuestions(node)
	if s.options.RandomizeQuestions {
		questions = domain.Shuffle(s.rnd, questions)
	}
	limit := s.options.QuestionLimit
	if limit < 0 {
		limit = 0
	}
	if limit < len(questions) {
		questions = questions[:limit]
	}

	questionIDs := make([]string, len(questions))
	answerIDs := make([][]string, len(questions))
	for i, q := range questions {
		id, err := domain.IDForQuestion(q)
		if err != nil {
			return err
		}
		questionIDs[i] = id

		answers := q.Answers
		if s.options.RandomizeAnswers {
			answers = domain.Shuffle(s.rnd, answers)
		}
		ids := make([]string, len(answers))
		for j, a := range answers {
			aid, err := domain.IDForAnswer(a)
			if err != nil {
				return err
			}
			ids[j] = aid
		}
		answerIDs[i] = ids
	}

	s.questionIDs = questionIDs
	s.answerIDsByQuestionIdx = answerIDs
	s.finalAnswersByQuestionIdx = make([]*domain.FinalAnswer, len(questionIDs))
	s.currentQuestionIdx = 0
	s.phase = domain.PhaseProgress
	return nil
}

// Answer records a final answer at the current question. A nil answer clears
// the recorded value (the drag-and-drop reset affordance); re-submitting the
// same single-choice answer toggles it off.
func (s *Session) Answer(finalAnswer *domain.FinalAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answerLocked(s.currentQuestionIdx, finalAnswer)
}

// AnswerAt records a final answer at an explicit question index.
func (s *Session) AnswerAt(questionIdx int, finalAnswer *domain.FinalAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answerLocked(questionIdx, finalAnswer)
}

func (s *Session) answerLocked(questionIdx int, finalAnswer *domain.FinalAnswer) error {
	if s.finalAnswersByQuestionIdx == nil {
		return fmt.Errorf("%w: session not started", domain.ErrNoCurrentQuestion)
	}
	if questionIdx < 0 || questionIdx >= len(s.finalAnswersByQuestionIdx) {
		return fmt.Errorf("%w: index %d out of range", domain.ErrNoCurrentQuestion, questionIdx)
	}

	previous := s.finalAnswersByQuestionIdx[questionIdx]
	recorded := finalAnswer
	if finalAnswer != nil && previous != nil &&
		finalAnswer.Kind == domain.AnswerSelected && previous.Kind == domain.AnswerSelected &&
		finalAnswer.AnswerID == previous.AnswerID {
		recorded = nil
	}
	if recorded != nil {
		copied := *recorded
		recorded = &copied
	}
	s.finalAnswersByQuestionIdx[questionIdx] = recorded

	if recorded != nil && questionIdx == s.currentQuestionIdx && s.options.AutoNextQuestionOnAnswer {
		s.nextLocked()
	}
	return nil
}

// Next advances to the next question. At the last question it ends the
// session instead, unless any question is still unanswered; that refusal is
// silent and the caller detects it by comparing state.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questionIDs == nil {
		return fmt.Errorf("%w: session not started", domain.ErrNoCurrentQuestion)
	}
	s.nextLocked()
	return nil
}

func (s *Session) nextLocked() {
	nextIdx := s.currentQuestionIdx + 1
	if nextIdx >= len(s.questionIDs) {
		for _, finalAnswer := range s.finalAnswersByQuestionIdx {
			if finalAnswer == nil {
				log.Printf("session %s: cannot end, at least one question has no answer", s.id)
				return
			}
		}
		s.phase = domain.PhaseEnded
		return
	}
	s.currentQuestionIdx = nextIdx
}

// Prev steps back one question. Stepping before the first question is a
// silent no-op.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questionIDs == nil {
		return fmt.Errorf("%w: session not started", domain.ErrNoCurrentQuestion)
	}
	if s.currentQuestionIdx == 0 {
		return nil
	}
	s.currentQuestionIdx--
	return nil
}

// Quit clears all per-session fields and the selection, returning to the
// main menu. The loaded bank and the configured options survive.
func (s *Session) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedNodeID = ""
	s.questionIDs = nil
	s.answerIDsByQuestionIdx = nil
	s.finalAnswersByQuestionIdx = nil
	s.currentQuestionIdx = 0
	s.phase = domain.PhaseMainMenu
}

// Results tallies the finished session against every question in the bank.
func (s *Session) Results() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bank == nil {
		return 0, domain.ErrNoQuestionData
	}
	if s.questionIDs == nil {
		return 0, fmt.Errorf("%w: session not started", domain.ErrNoCurrentQuestion)
	}
	return domain.TallyCorrectAnswers(s.snapshotLocked(), s.bank.AllQuestions()), nil
}

// Snapshot returns the serializable projection of the session, bank excluded.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		Phase:          s.phase,
		SelectedNodeID: s.selectedNodeID,
		Options:        s.options,
	}
	if s.questionIDs == nil {
		return snap
	}

	snap.QuestionIDs = append([]string(nil), s.questionIDs...)
	snap.AnswerIDsByQuestionIdx = make([][]string, len(s.answerIDsByQuestionIdx))
	for i, ids := range s.answerIDsByQuestionIdx {
		snap.AnswerIDsByQuestionIdx[i] = append([]string(nil), ids...)
	}
	snap.FinalAnswersByQuestionIdx = make([]*domain.FinalAnswer, len(s.finalAnswersByQuestionIdx))
	for i, finalAnswer := range s.finalAnswersByQuestionIdx {
		if finalAnswer == nil {
			continue
		}
		copied := *finalAnswer
		snap.FinalAnswersByQuestionIdx[i] = &copied
	}
	idx := s.currentQuestionIdx
	snap.CurrentQuestionIdx = &idx
	return snap
}

// Restore loads a persisted snapshot into the session. The bank field stays
// empty; callers must reload it before the session is usable again. A
// snapshot whose parallel arrays are out of sync is discarded and the
// session comes back at the main menu with only the options kept.
func (s *Session) Restore(snap domain.SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !snapshotConsistent(snap) {
		log.Printf("session %s: snapshot arrays out of sync, starting at main menu", s.id)
		s.phase = domain.PhaseMainMenu
		s.selectedNodeID = ""
		s.options = snap.Options
		s.questionIDs = nil
		s.answerIDsByQuestionIdx = nil
		s.finalAnswersByQuestionIdx = nil
		s.currentQuestionIdx = 0
		return
	}

	s.phase = snap.Phase
	if s.phase == "" {
		s.phase = domain.PhaseMainMenu
	}
	s.selectedNodeID = snap.SelectedNodeID
	s.options = snap.Options
	s.questionIDs = snap.QuestionIDs
	s.answerIDsByQuestionIdx = snap.AnswerIDsByQuestionIdx
	s.finalAnswersByQuestionIdx = snap.FinalAnswersByQuestionIdx
	s.currentQuestionIdx = 0
	if snap.CurrentQuestionIdx != nil {
		s.currentQuestionIdx = *snap.CurrentQuestionIdx
	}
}

// snapshotConsistent reports whether the three per-question arrays share a
// length and the current index points inside them.
func snapshotConsistent(snap domain.SessionSnapshot) bool {
	n := len(snap.QuestionIDs)
	if len(snap.AnswerIDsByQuestionIdx) != n || len(snap.FinalAnswersByQuestionIdx) != n {
		return false
	}
	if snap.CurrentQuestionIdx != nil {
		idx := *snap.CurrentQuestionIdx
		if idx < 0 || (n > 0 && idx >= n) {
			return false
		}
	}
	return true
}

// CurrentQuestion resolves the question and the session's captured answer
// order at the current index, for rendering.
func (s *Session) CurrentQuestion() (domain.Question, []domain.Answer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bank == nil {
		return domain.Question{}, nil, 0, domain.ErrNoQuestionData
	}
	if s.questionIDs == nil || s.currentQuestionIdx >= len(s.questionIDs) {
		return domain.Question{}, nil, 0, fmt.Errorf("%w: session not started", domain.ErrNoCurrentQuestion)
	}

	questionID := s.questionIDs[s.currentQuestionIdx]
	question, ok := domain.FindQuestionByID(s.bank.Children, questionID)
	if !ok {
		return domain.Question{}, nil, 0, fmt.Errorf("%w: %q", domain.ErrQuestionNotFound, questionID)
	}

	byID := make(map[string]domain.Answer, len(question.Answers))
	for _, a := range question.Answers {
		byID[a.InternalID] = a
	}
	ordered := make([]domain.Answer, 0, len(question.Answers))
	for _, id := range s.answerIDsByQuestionIdx[s.currentQuestionIdx] {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return question, ordered, s.currentQuestionIdx, nil
}
