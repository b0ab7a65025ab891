package pipeline

import (
	"log/slog"
	"sync"

	"netcheck/internal/diagnostic/domain"
	"netcheck/internal/diagnostic/events"
)

// stepSet guards the per-step state shared between the orchestrator and
// the parallel probe goroutines. Every applied transition is published.
type stepSet struct {
	mu      sync.Mutex
	steps   map[domain.StepID]*domain.Step
	emitter *events.Emitter
	logger  *slog.Logger
}

func newStepSet(emitter *events.Emitter, logger *slog.Logger) *stepSet {
	steps := make(map[domain.StepID]*domain.Step, len(domain.AllSteps()))
	for _, id := range domain.AllSteps() {
		steps[id] = domain.NewStep(id)
	}
	return &stepSet{steps: steps, emitter: emitter, logger: logger}
}

// announce publishes the step's current status without changing it,
// used to seed the progress stream at run start.
func (s *stepSet) announce(id domain.StepID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[id]
	step.ResultText = message
	s.emitter.Publish(events.Event{StepID: id, Status: step.Status, Message: message})
}

// transition applies a monotonic status change. Regressions are logged
// and dropped, never applied.
func (s *stepSet) transition(id domain.StepID, status domain.StepStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[id]
	if !step.Transition(status) {
		s.logger.Warn("dropping step status regression",
			"step", id,
			"current", step.Status,
			"attempted", status,
		)
		return
	}
	step.ResultText = message
	s.emitter.Publish(events.Event{StepID: id, Status: status, Message: message})
}

func (s *stepSet) setDuration(id domain.StepID, ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[id].DurationMS = ms
}

func (s *stepSet) setRecommendation(id domain.StepID, recommendation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[id].Recommendation = recommendation
}

func (s *stepSet) snapshot() []domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Step, 0, len(s.steps))
	for _, id := range domain.AllSteps() {
		out = append(out, *s.steps[id])
	}
	return out
}
