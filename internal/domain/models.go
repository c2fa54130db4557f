package domain

import "encoding/json"

// Phase is the coarse stage of a quiz session.
type Phase string

const (
	// PhaseMainMenu covers node selection, including "no bank loaded yet".
	PhaseMainMenu Phase = "mainMenu"
	// PhaseConfigure means a node is selected and options are being adjusted.
	PhaseConfigure Phase = "configure"
	// PhaseProgress means a session is running.
	PhaseProgress Phase = "progress"
	// PhaseEnded means all questions were answered and the session finished.
	PhaseEnded Phase = "ended"
)

// ReferenceLike holds a source/rationale reference: a plain string, a single
// URL descriptor, or a list of descriptors. The import format allows all three.
type ReferenceLike struct {
	Text string          `json:"text,omitempty"`
	URLs []URLDescriptor `json:"urls,omitempty"`
}

// URLDescriptor is a named link attached to a question or answer.
type URLDescriptor struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts a string, an object, or an array of objects.
func (r *ReferenceLike) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		r.Text = asString
		return nil
	}
	var asOne URLDescriptor
	if err := json.Unmarshal(data, &asOne); err == nil && asOne.URL != "" {
		r.URLs = []URLDescriptor{asOne}
		return nil
	}
	var asMany []URLDescriptor
	if err := json.Unmarshal(data, &asMany); err != nil {
		return err
	}
	r.URLs = asMany
	return nil
}

// IsZero reports whether no reference was provided.
func (r ReferenceLike) IsZero() bool {
	return r.Text == "" && len(r.URLs) == 0
}

// Answer is a single answer option. InternalID is assigned at import time from
// the original answer text and is treated as opaque afterwards; it must never
// be re-derived from mutated text.
type Answer struct {
	InternalID string         `json:"internalId"`
	Text       string         `json:"answer"`
	Correct    bool           `json:"correct,omitempty"`
	Rationale  *ReferenceLike `json:"rationale,omitempty"`
	Reference  *ReferenceLike `json:"reference,omitempty"`
	// CorrectIndex marks this answer's position in an ordering question. Any
	// answer carrying one turns the whole question into an ordering task.
	CorrectIndex *int `json:"correctIndex,omitempty"`
}

// Question is keyed semantically by its text: two questions with identical
// text anywhere in the bank are indistinguishable to lookups.
type Question struct {
	Text      string         `json:"question"`
	Hint      string         `json:"hint,omitempty"`
	ImageName string         `json:"imageName,omitempty"`
	Source    *ReferenceLike `json:"source,omitempty"`
	Answers   []Answer       `json:"answers"`
}

// IsOrdering reports whether the question is a drag-and-drop ordering task.
func (q Question) IsOrdering() bool {
	for _, a := range q.Answers {
		if a.CorrectIndex != nil {
			return true
		}
	}
	return false
}

// Node is a unit in the question-bank tree. It may hold questions, child
// nodes, or both. InternalID is the slug of the display name; uniqueness is
// not enforced globally, traversal is first-match-wins.
type Node struct {
	InternalID string     `json:"internalId"`
	Name       string     `json:"name"`
	Abbr       string     `json:"abbr,omitempty"`
	Questions  []Question `json:"questions,omitempty"`
	Children   []*Node    `json:"children,omitempty"`
}

// QuestionBank is the root of the question tree. It is replaced wholesale on
// each import; there is no incremental merge.
type QuestionBank struct {
	Children []*Node `json:"children"`
}

// IsEmpty reports whether the bank has no nodes at all.
func (b QuestionBank) IsEmpty() bool {
	return len(b.Children) == 0
}

// AllQuestions flattens every question in the bank in encounter order.
func (b QuestionBank) AllQuestions() []Question {
	var questions []Question
	for _, root := range b.Children {
		questions = append(questions, CollectQuestions(root)...)
	}
	return questions
}

// Options is the flat session configuration. Callers replace it wholesale;
// there is no field-level merge.
type Options struct {
	RandomizeQuestions       bool `json:"randomizeQuestions"`
	RandomizeAnswers         bool `json:"randomizeAnswers"`
	QuestionLimit            int  `json:"questionLimit"`
	ImmediatelyShowResult    bool `json:"immediatelyShowResult"`
	AllowHints               bool `json:"allowHints"`
	FreeTextMode             bool `json:"freeTextMode"`
	AutoNextQuestionOnAnswer bool `json:"autoNextQuestionOnAnswer"`
}

// DefaultOptions returns the option set applied before any node is selected.
func DefaultOptions() Options {
	return Options{
		RandomizeQuestions: true,
		RandomizeAnswers:   true,
		QuestionLimit:      0,
		AllowHints:         true,
	}
}

// FinalAnswerKind discriminates the FinalAnswer variants.
type FinalAnswerKind string

const (
	// AnswerSelected is a single-choice selection.
	AnswerSelected FinalAnswerKind = "selected"
	// AnswerFreeText is a typed free-text response. Never graded.
	AnswerFreeText FinalAnswerKind = "freeText"
	// AnswerOrdered is a drag-and-drop ordering of answer IDs.
	AnswerOrdered FinalAnswerKind = "ordered"
)

// FinalAnswer is the user's recorded response to one question, variant-typed
// by question modality. Exactly one payload field is meaningful per Kind.
type FinalAnswer struct {
	Kind      FinalAnswerKind `json:"kind"`
	AnswerID  string          `json:"answerId,omitempty"`
	Text      string          `json:"text,omitempty"`
	AnswerIDs []string        `json:"answerIds,omitempty"`
}

// SelectedAnswer builds the single-choice variant.
func SelectedAnswer(answerID string) FinalAnswer {
	return FinalAnswer{Kind: AnswerSelected, AnswerID: answerID}
}

// FreeTextAnswer builds the free-text variant.
func FreeTextAnswer(text string) FinalAnswer {
	return FinalAnswer{Kind: AnswerFreeText, Text: text}
}

// OrderedAnswer builds the ordering variant.
func OrderedAnswer(answerIDs []string) FinalAnswer {
	return FinalAnswer{Kind: AnswerOrdered, AnswerIDs: answerIDs}
}

// SessionSnapshot is the serializable projection of session state that gets
// persisted between launches. The question bank is deliberately excluded; a
// restored snapshot requires the bank to be reloaded before use.
type SessionSnapshot struct {
	Phase                     Phase          `json:"phase"`
	SelectedNodeID            string         `json:"selectedNodeId,omitempty"`
	Options                   Options        `json:"options"`
	QuestionIDs               []string       `json:"questionIds,omitempty"`
	AnswerIDsByQuestionIdx    [][]string     `json:"answerIdsByQuestionIdx,omitempty"`
	FinalAnswersByQuestionIdx []*FinalAnswer `json:"finalAnswersByQuestionIdx,omitempty"`
	CurrentQuestionIdx        *int           `json:"currentQuestionIdx,omitempty"`
}
