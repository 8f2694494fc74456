package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
)

// ResolveClientType decides between cookie-based web sessions and
// token-in-body mobile sessions. An explicit X-Client-Type header wins;
// otherwise a browser-looking User-Agent means web.
func ResolveClientType(clientHeader, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(clientHeader)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	}

	if strings.Contains(userAgent, "Mozilla") {
		return ClientTypeWeb
	}

	return ClientTypeMobile
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
