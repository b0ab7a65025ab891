package validator

import (
	"errors"
	"net/url"
	"strings"
)

var ErrEmptyTarget = errors.New("target is empty")

// NormalizeTarget turns user input (a bare domain or a URL) into the
// full URL the probes hit and the host the DNS gate resolves. A target
// without a scheme defaults to https.
func NormalizeTarget(target string) (fullURL, host string, err error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", ErrEmptyTarget
	}

	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", "", err
	}
	if u.Hostname() == "" {
		return "", "", errors.New("cannot extract domain from " + target)
	}
	return u.String(), u.Hostname(), nil
}
