package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// rawNode tolerates both the generalized tree shape ("children") and the
// legacy two-level export shape ("levels" containing "areas").
type rawNode struct {
	InternalID string     `json:"internalId"`
	Name       string     `json:"name"`
	Abbr       string     `json:"abbr"`
	Questions  []Question `json:"questions"`
	Children   []*rawNode `json:"children"`
	Areas      []*rawNode `json:"areas"`
}

type rawBank struct {
	Children []*rawNode `json:"children"`
	Levels   []*rawNode `json:"levels"`
}

// ParseQuestionBank decodes an imported JSON document into a normalized
// QuestionBank: duplicates purged, node and answer IDs assigned. Only the
// root shape is validated here; malformed deeper structures surface later at
// point of use, which matches how imports have always behaved.
func ParseQuestionBank(data []byte) (QuestionBank, error) {
	var raw rawBank
	if err := json.Unmarshal(data, &raw); err != nil {
		return QuestionBank{}, fmt.Errorf("parse question bank: %w", err)
	}

	roots := raw.Children
	if len(roots) == 0 {
		roots = raw.Levels
	}
	if len(roots) == 0 {
		return QuestionBank{}, ErrEmptyBank
	}

	bank := QuestionBank{Children: convertNodes(roots)}
	NormalizeBank(&bank)
	return bank, nil
}

func convertNodes(raw []*rawNode) []*Node {
	nodes := make([]*Node, 0, len(raw))
	for _, rn := range raw {
		children := rn.Children
		if len(children) == 0 {
			children = rn.Areas
		}
		nodes = append(nodes, &Node{
			InternalID: rn.InternalID,
			Name:       rn.Name,
			Abbr:       rn.Abbr,
			Questions:  rn.Questions,
			Children:   convertNodes(children),
		})
	}
	return nodes
}

// NormalizeBank purges duplicate sibling data and assigns stable IDs.
// Dedup is by exact display name (nodes) or text (questions, answers), first
// occurrence wins at every level. Node IDs are re-derived from names; answer
// IDs are the slug of the imported value when present, otherwise the slug of
// the answer text, falling back to a positional ID for empty or colliding
// slugs so re-imports of identical data produce identical IDs.
func NormalizeBank(bank *QuestionBank) {
	bank.Children = purgeNodes(bank.Children)
}

func purgeNodes(nodes []*Node) []*Node {
	seen := make(map[string]bool, len(nodes))
	kept := nodes[:0]
	for _, node := range nodes {
		if seen[node.Name] {
			continue
		}
		seen[node.Name] = true
		node.InternalID = Slugify(node.Name)
		node.Questions = purgeQuestions(node.Questions)
		node.Children = purgeNodes(node.Children)
		kept = append(kept, node)
	}
	return kept
}

func purgeQuestions(questions []Question) []Question {
	seen := make(map[string]bool, len(questions))
	kept := questions[:0]
	for _, q := range questions {
		if seen[q.Text] {
			continue
		}
		seen[q.Text] = true
		q.Answers = purgeAnswers(q.Answers)
		kept = append(kept, q)
	}
	return kept
}

func purgeAnswers(answers []Answer) []Answer {
	seenText := make(map[string]bool, len(answers))
	usedIDs := make(map[string]bool, len(answers))
	kept := answers[:0]
	for i, a := range answers {
		if seenText[a.Text] {
			continue
		}
		seenText[a.Text] = true
		a.InternalID = Slugify(a.InternalID)
		if a.InternalID == "" {
			a.InternalID = Slugify(a.Text)
		}
		if a.InternalID == "" || usedIDs[a.InternalID] {
			a.InternalID = "answer-" + strconv.Itoa(i)
		}
		usedIDs[a.InternalID] = true
		kept = append(kept, a)
	}
	return kept
}
