// Package classifier tags discovered files with a graph.Role.
//
// The heuristics are fuzzy by nature, so they sit behind the Classifier
// interface and can be swapped without touching graph logic.
package classifier

import "codemap/internal/graph"

// Candidate is a discovered file offered for classification.
type Candidate struct {
	Path    string // absolute
	Rel     string // slash-separated, relative to the project root
	Content []byte
}

// Classifier returns a role for a candidate, or false when it has no opinion.
type Classifier interface {
	Classify(c Candidate) (graph.Role, bool)
}

// Func adapts a plain function to Classifier.
type Func func(c Candidate) (graph.Role, bool)

func (f Func) Classify(c Candidate) (graph.Role, bool) {
	return f(c)
}

// Chain asks each classifier in order and returns the first answer.
type Chain []Classifier

func (ch Chain) Classify(c Candidate) (graph.Role, bool) {
	for _, cl := range ch {
		if role, ok := cl.Classify(c); ok && role.Valid() {
			return role, true
		}
	}
	return "", false
}

// Default classifies by path first and falls back to content.
func Default() Chain {
	return Chain{PathClassifier{}, ContentClassifier{}}
}
