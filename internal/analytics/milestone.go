package analytics

// Thresholds are the answered-question counts that raise a milestone, in
// ascending order.
var Thresholds = []int{10, 50}

// Milestone is a threshold crossed for the first time.
type Milestone struct {
	Threshold int `json:"threshold"`
}

// EvaluateMilestone checks the distinct answered count against the
// thresholds not yet in shown. At most one milestone is returned per
// call, the lowest unshown one reached; the caller persists it into the
// shown set.
func EvaluateMilestone(done int, shown map[int]bool) (Milestone, bool) {
	for _, t := range Thresholds {
		if done >= t && !shown[t] {
			return Milestone{Threshold: t}, true
		}
	}
	return Milestone{}, false
}
