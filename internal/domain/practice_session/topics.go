package practicesession

import (
	"math"
	"sort"

	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/domain/question"
)

// TopicSummary describes one topic root for topic selection.
type TopicSummary struct {
	Root    string
	Total   int
	Done    int
	Percent int
}

// Topics groups the pool by topic root, counting each question once per
// root. Roots are ordered by question count, most frequent first.
func Topics(pool []question.Question, p progress.Map) []TopicSummary {
	totals := make(map[string]int)
	done := make(map[string]int)

	for _, q := range pool {
		_, answered := p[q.ID]
		for _, root := range q.Roots() {
			totals[root]++
			if answered {
				done[root]++
			}
		}
	}

	summaries := make([]TopicSummary, 0, len(totals))
	for root, total := range totals {
		summaries = append(summaries, TopicSummary{
			Root:    root,
			Total:   total,
			Done:    done[root],
			Percent: int(math.Round(float64(done[root]) / float64(total) * 100)),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].Root < summaries[j].Root
	})
	return summaries
}
