package domain

// Step tracks one probe category through the run. Transitions are
// monotonic: pending -> running -> one terminal status, never backwards.
type Step struct {
	ID             StepID     `json:"id"`
	Status         StepStatus `json:"status"`
	ResultText     string     `json:"result_text,omitempty"`
	DurationMS     float64    `json:"duration_ms,omitempty"`
	Recommendation string     `json:"recommendation,omitempty"`
}

func NewStep(id StepID) *Step {
	return &Step{ID: id, Status: StatusPending}
}

// Transition applies the new status if it does not regress. It reports
// whether the change was applied.
func (s *Step) Transition(to StepStatus) bool {
	if s.Status.Terminal() {
		return false
	}
	if to.rank() <= s.Status.rank() {
		return false
	}
	s.Status = to
	return true
}
