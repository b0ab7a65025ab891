package parsers

import (
	"encoding/json"
	"math"
	"strings"

	"netcheck/internal/diagnostic/domain"
)

// CurlTimingFormat is the -w template handed to curl. Every timer is
// cumulative seconds since request start.
const CurlTimingFormat = `{"dns": %{time_namelookup}, "connect": %{time_connect}, "ssl": %{time_appconnect}, "ttfb": %{time_starttransfer}, "total": %{time_total}, "http_code": %{http_code}, "speed": %{speed_download}}`

type curlTiming struct {
	DNS      float64 `json:"dns"`
	Connect  float64 `json:"connect"`
	SSL      float64 `json:"ssl"`
	TTFB     float64 `json:"ttfb"`
	Total    float64 `json:"total"`
	HTTPCode int     `json:"http_code"`
	Speed    float64 `json:"speed"`
}

// ParseCurlTiming converts the JSON written by CurlTimingFormat into a
// TCPResult. Timings are converted to whole milliseconds, always
// truncating the fraction. A malformed payload keeps the raw output
// attached for inspection.
func ParseCurlTiming(raw []byte) (*domain.TCPResult, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, domain.NewParseError("curl produced no timing output", string(raw), nil)
	}

	var timing curlTiming
	if err := json.Unmarshal([]byte(text), &timing); err != nil {
		return nil, domain.NewParseError("unexpected curl timing output", text, err)
	}

	return &domain.TCPResult{
		DNSTimeMS:         secondsToMS(timing.DNS),
		ConnectTimeMS:     secondsToMS(timing.Connect),
		SSLTimeMS:         secondsToMS(timing.SSL),
		TTFBMS:            secondsToMS(timing.TTFB),
		TotalTimeMS:       secondsToMS(timing.Total),
		HTTPCode:          timing.HTTPCode,
		DownloadSpeedKBps: timing.Speed / 1024.0,
	}, nil
}

// secondsToMS floors to whole milliseconds; all probe timings share this
// truncation so values compare consistently.
func secondsToMS(sec float64) float64 {
	return math.Floor(sec * 1000)
}
