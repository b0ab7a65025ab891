package domain

type IssueSeverity string

const (
	SeverityInfo    IssueSeverity = "info"
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

type IssueCategory string

const (
	CategoryDNS       IssueCategory = "dns"
	CategoryTCP       IssueCategory = "tcp"
	CategorySSL       IssueCategory = "ssl"
	CategoryHTTP      IssueCategory = "http"
	CategoryRouting   IssueCategory = "routing"
	CategoryStability IssueCategory = "stability"
)

// Issue is produced only by the classifier, never by a probe.
type Issue struct {
	Category       IssueCategory `json:"category"`
	Severity       IssueSeverity `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	PossibleCauses []string      `json:"possible_causes"`
	Solutions      []string      `json:"solutions"`
}

// Report is the final aggregate delivered once per run. Probe result
// fields are nil when the probe never ran or ended in error.
type Report struct {
	RunID           string           `json:"run_id"`
	TargetURL       string           `json:"target_url"`
	Timestamp       string           `json:"timestamp"`
	DNS             *DNSResult       `json:"dns"`
	TCP             *TCPResult       `json:"tcp"`
	Routing         *RoutingResult   `json:"routing"`
	Stability       *StabilityResult `json:"stability"`
	Score           int              `json:"score"`
	OverallStatus   OverallStatus    `json:"overall_status"`
	Issues          []Issue          `json:"issues"`
	Recommendations []string         `json:"recommendations"`
	Steps           []Step           `json:"steps"`
}

// Request is the immutable input of one diagnostic run.
type Request struct {
	TargetURL string
	Domain    string
}
