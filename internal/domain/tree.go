package domain

// FindNodeByID searches depth-first for the first node whose InternalID
// matches. Each subtree is exhausted before moving to the next sibling.
func FindNodeByID(nodes []*Node, nodeID string) (*Node, bool) {
	for _, node := range nodes {
		if node.InternalID == nodeID {
			return node, true
		}
		if found, ok := FindNodeByID(node.Children, nodeID); ok {
			return found, true
		}
	}
	return nil, false
}

// CollectQuestions flattens every question under node: the node's own
// questions first, then each child's recursively in child-list order.
// No deduplication is applied.
func CollectQuestions(node *Node) []Question {
	var questions []Question
	if len(node.Questions) > 0 {
		questions = append(questions, node.Questions...)
	}
	for _, child := range node.Children {
		questions = append(questions, CollectQuestions(child)...)
	}
	return questions
}

// CollectNodes flattens all descendants of node, depth-first in child-list
// order. The node itself is not included.
func CollectNodes(node *Node) []*Node {
	var nodes []*Node
	for _, child := range node.Children {
		nodes = append(nodes, child)
		nodes = append(nodes, CollectNodes(child)...)
	}
	return nodes
}

// FindQuestionByID resolves a question by its derived ID. A node with
// children is treated purely as a group: only its children are searched,
// its own questions are skipped. Childless nodes have their questions
// scanned by derived ID.
func FindQuestionByID(nodes []*Node, questionID string) (Question, bool) {
	for _, node := range nodes {
		if len(node.Children) > 0 {
			if found, ok := FindQuestionByID(node.Children, questionID); ok {
				return found, true
			}
			continue
		}
		for _, q := range node.Questions {
			id, err := IDForQuestion(q)
			if err != nil {
				continue
			}
			if id == questionID {
				return q, true
			}
		}
	}
	return Question{}, false
}
