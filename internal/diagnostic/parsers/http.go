package parsers

import (
	"strconv"
	"strings"

	"netcheck/internal/diagnostic/domain"
)

// ParseHTTPCode reads the bare status code written by `curl -w
// "%{http_code}"`. curl writes 000 when no response arrived.
func ParseHTTPCode(raw []byte) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return 0, domain.NewParseError("curl produced no status code", string(raw), nil)
	}
	code, err := strconv.Atoi(text)
	if err != nil {
		return 0, domain.NewParseError("unexpected curl status output", text, err)
	}
	return code, nil
}
