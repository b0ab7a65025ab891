package output

import (
	"encoding/json"

	"netcheck/internal/diagnostic/domain"
)

func RenderJSON(report *domain.Report) (string, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
