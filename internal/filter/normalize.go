package filter

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultTrackingParams are query parameter prefixes dropped during
// normalization. IMDb tags every chart link with ref_.
var DefaultTrackingParams = []string{"ref_"}

// Normalize resolves href against base and strips the fragment and any query
// parameter whose name starts with one of dropPrefixes. It returns an error
// for hrefs that cannot be parsed or are not http(s).
func Normalize(base, href string, dropPrefixes []string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}

	u := b.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &url.Error{Op: "normalize", URL: u.String(), Err: errUnsupportedScheme}
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)

	if u.RawQuery != "" && len(dropPrefixes) > 0 {
		q := u.Query()
		for key := range q {
			for _, prefix := range dropPrefixes {
				if strings.HasPrefix(key, prefix) {
					q.Del(key)
					break
				}
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

var errUnsupportedScheme = errors.New("unsupported scheme")
