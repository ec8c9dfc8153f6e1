package deliver

import (
	netURL "net/url"
	"strings"

	"github.com/gravitational/trace"
)

const (
	SchemeHTTP  string = "http://"
	SchemeHTTPS string = "https://"
)

func normaliseURL(url string, protocolScheme string) (string, error) {
	url = strings.TrimSpace(url)

	// A colon without "//" is a malformed scheme unless it introduces a port.
	if i := strings.IndexByte(url, ':'); i >= 0 && !strings.Contains(url, "://") {
		if i+1 >= len(url) || url[i+1] < '0' || url[i+1] > '9' {
			return "", trace.BadParameter("invalid URL format: missing // after scheme in %q", url)
		}
	}

	if protocolScheme != "" {
		// Clean the protocol scheme prior to adding the new one
		url = strings.TrimPrefix(url, SchemeHTTP)
		url = strings.TrimPrefix(url, SchemeHTTPS)
		if !strings.Contains(protocolScheme, "://") {
			protocolScheme += "://"
		}
		if !strings.HasPrefix(url, protocolScheme) {
			url = protocolScheme + url
		}
	} else if !strings.HasPrefix(url, SchemeHTTP) && !strings.HasPrefix(url, SchemeHTTPS) {
		url = SchemeHTTPS + url
	}

	if _, err := netURL.Parse(url); err != nil {
		return "", trace.Wrap(err)
	}

	return url, nil
}

// AppendQuery normalises base and attaches query to it. A base that
// already carries a query gets the new pairs after an "&". Any fragment is
// kept at the end.
func AppendQuery(base string, query string, protocolScheme string) (string, error) {
	url, err := normaliseURL(base, protocolScheme)
	if err != nil {
		return "", trace.Wrap(err)
	}
	if query == "" {
		return url, nil
	}

	fragment := ""
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url, fragment = url[:i], url[i:]
	}

	switch {
	case !strings.Contains(url, "?"):
		url += "?" + query
	case strings.HasSuffix(url, "?"), strings.HasSuffix(url, "&"):
		url += query
	default:
		url += "&" + query
	}

	return url + fragment, nil
}
