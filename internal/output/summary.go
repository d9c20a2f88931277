package output

import (
	"sort"

	"github.com/nethalo/sqlclass/internal/classifier"
)

// Summary aggregates a batch of classifications.
type Summary struct {
	Total       int
	ReplicaSafe int
	ByStatus    map[classifier.Status]int
	ByOperation map[classifier.Operation]int
}

// Summarize counts results by status and operation.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:       len(results),
		ByStatus:    make(map[classifier.Status]int),
		ByOperation: make(map[classifier.Operation]int),
	}
	for _, r := range results {
		s.ByStatus[r.Record.Status()]++
		s.ByOperation[r.Record.Operation()]++
		if r.Record.ReplicaSafe() {
			s.ReplicaSafe++
		}
	}
	return s
}

// Statuses returns the statuses present, best first.
func (s Summary) Statuses() []classifier.Status {
	var out []classifier.Status
	for _, st := range []classifier.Status{classifier.Parsed, classifier.PartiallyParsed, classifier.Tokenized, classifier.Invalid} {
		if s.ByStatus[st] > 0 {
			out = append(out, st)
		}
	}
	return out
}

// Operations returns the operations present, most frequent first.
func (s Summary) Operations() []classifier.Operation {
	ops := make([]classifier.Operation, 0, len(s.ByOperation))
	for op := range s.ByOperation {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if s.ByOperation[ops[i]] != s.ByOperation[ops[j]] {
			return s.ByOperation[ops[i]] > s.ByOperation[ops[j]]
		}
		return ops[i] < ops[j]
	})
	return ops
}
