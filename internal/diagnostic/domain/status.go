package domain

// StepStatus is the closed set of states a diagnostic step moves through.
type StepStatus string

const (
	StatusPending StepStatus = "pending"
	StatusRunning StepStatus = "running"
	StatusSuccess StepStatus = "success"
	StatusWarning StepStatus = "warning"
	StatusError   StepStatus = "error"
)

func (s StepStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusWarning, StatusError:
		return true
	case StatusPending, StatusRunning:
		return false
	}
	return false
}

func (s StepStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusRunning:
		return 1
	case StatusSuccess, StatusWarning, StatusError:
		return 2
	}
	return -1
}

type StepID string

const (
	StepDNS       StepID = "dns"
	StepTCP       StepID = "tcp"
	StepSSL       StepID = "ssl"
	StepHTTP      StepID = "http"
	StepRouting   StepID = "routing"
	StepStability StepID = "stability"
)

// AllSteps returns the step identifiers in presentation order.
func AllSteps() []StepID {
	return []StepID{StepDNS, StepTCP, StepSSL, StepHTTP, StepRouting, StepStability}
}

type OverallStatus string

const (
	OverallExcellent  OverallStatus = "excellent"
	OverallGood       OverallStatus = "good"
	OverallAcceptable OverallStatus = "acceptable"
	OverallPoor       OverallStatus = "poor"
	OverallFailed     OverallStatus = "failed"
)
