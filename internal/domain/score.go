package domain

import "sort"

// TallyCorrectAnswers counts the correctly answered questions of a finished
// (or partially answered) session. Unanswered, unresolvable, or answerless
// questions are skipped: no credit, no penalty. Ordering questions are scored
// all-or-nothing. Free-text answers are never graded here; no text-similarity
// rule exists.
func TallyCorrectAnswers(snap SessionSnapshot, allQuestions []Question) int {
	if snap.QuestionIDs == nil || snap.AnswerIDsByQuestionIdx == nil || snap.FinalAnswersByQuestionIdx == nil {
		return 0
	}

	tally := 0
	for i, questionID := range snap.QuestionIDs {
		if i >= len(snap.FinalAnswersByQuestionIdx) || i >= len(snap.AnswerIDsByQuestionIdx) {
			break
		}
		finalAnswer := snap.FinalAnswersByQuestionIdx[i]
		shuffledAnswerIDs := snap.AnswerIDsByQuestionIdx[i]

		question, ok := questionByID(allQuestions, questionID)
		if finalAnswer == nil || shuffledAnswerIDs == nil || !ok || len(question.Answers) == 0 {
			continue
		}

		if question.IsOrdering() {
			if orderedAnswerCorrect(question, *finalAnswer) {
				tally++
			}
			continue
		}
		if selectedAnswerCorrect(question, *finalAnswer, shuffledAnswerIDs) {
			tally++
		}
	}
	return tally
}

func questionByID(questions []Question, questionID string) (Question, bool) {
	for _, q := range questions {
		id, err := IDForQuestion(q)
		if err != nil {
			continue
		}
		if id == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// orderedAnswerCorrect credits an ordering question only on an exact match:
// same length, same IDs in the same positions as the correctIndex-sorted order.
func orderedAnswerCorrect(question Question, finalAnswer FinalAnswer) bool {
	var ordered []Answer
	for _, a := range question.Answers {
		if a.CorrectIndex != nil {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return *ordered[i].CorrectIndex < *ordered[j].CorrectIndex
	})

	var userOrder []string
	if finalAnswer.Kind == AnswerOrdered {
		userOrder = finalAnswer.AnswerIDs
	}
	if len(userOrder) != len(ordered) {
		return false
	}
	for i, a := range ordered {
		if userOrder[i] != a.InternalID {
			return false
		}
	}
	return true
}

// selectedAnswerCorrect checks a single-choice answer against the explicitly
// flagged correct answer, or the first answer in original order when none is
// flagged. The submitted ID must also appear in the session's shuffled order
// for that question; free-text answers never earn credit.
func selectedAnswerCorrect(question Question, finalAnswer FinalAnswer, shuffledAnswerIDs []string) bool {
	switch finalAnswer.Kind {
	case AnswerSelected:
	case AnswerFreeText, AnswerOrdered:
		return false
	default:
		return false
	}

	correctAnswerID := question.Answers[0].InternalID
	for _, a := range question.Answers {
		if a.Correct {
			correctAnswerID = a.InternalID
			break
		}
	}

	for _, id := range shuffledAnswerIDs {
		if id == finalAnswer.AnswerID {
			return id == correctAnswerID
		}
	}
	return false
}
