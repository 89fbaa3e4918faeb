package model

// ProxyPair holds the proxy URLs used for plain HTTP and for HTTPS requests.
// Both are derived from the same pool entry, so in practice they are equal.
// A zero ProxyPair means requests go out directly.
type ProxyPair struct {
	// HTTP is the proxy URL for http:// targets (e.g. "http://1.2.3.4:8080").
	HTTP string `json:"http"`

	// HTTPS is the proxy URL for https:// targets.
	HTTPS string `json:"https"`
}

// IsZero reports whether no proxy is configured.
func (p ProxyPair) IsZero() bool {
	return p.HTTP == "" && p.HTTPS == ""
}

// For returns the proxy URL to use for a target with the given scheme.
func (p ProxyPair) For(scheme string) string {
	if scheme == "https" {
		return p.HTTPS
	}
	return p.HTTP
}
