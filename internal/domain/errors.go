package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session has not been attached yet.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNoQuestionData is returned when a transition needs a loaded bank.
	ErrNoQuestionData = errors.New("question bank not loaded")
	// ErrBankNotFound indicates the bank could not be loaded from its store.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrNodeNotFound indicates a node ID does not resolve in the tree.
	ErrNodeNotFound = errors.New("node not found")
	// ErrQuestionNotFound indicates a question ID does not resolve.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidQuestion indicates a question without text; its ID cannot be derived.
	ErrInvalidQuestion = errors.New("question has no text")
	// ErrInvalidAnswer indicates an answer without an internal ID.
	ErrInvalidAnswer = errors.New("answer has no internal id")
	// ErrMissingData is returned when a session is started without a bank,
	// selection, or options in place. A caller bug, not a user error.
	ErrMissingData = errors.New("cannot start session: missing data")
	// ErrNoCurrentQuestion is returned for answer/navigation calls outside a session.
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrEmptyBank is the one user-recoverable import error: the document
	// parsed but contained nothing usable.
	ErrEmptyBank = errors.New("no levels, areas or questions found")
)
