package storage

import (
	"net/url"
	"strings"
)

// URLValidator checks that a submitted media URL actually points at our
// storage origin and public bucket, so listings cannot embed arbitrary or
// lookalike hosts.
type URLValidator struct {
	hostSuffix string
	pathPrefix string
}

// NewURLValidator takes the public host suffix (e.g. ".storage.example.com")
// and the bucket name whose public objects are served under
// /<bucket>/ on that host.
func NewURLValidator(hostSuffix, bucket string) *URLValidator {
	if !strings.HasPrefix(hostSuffix, ".") {
		hostSuffix = "." + hostSuffix
	}
	return &URLValidator{
		hostSuffix: hostSuffix,
		pathPrefix: "/" + bucket + "/",
	}
}

// IsValid requires https, a host that is a proper subdomain of the storage
// suffix, and a path inside the public bucket. A host merely containing the
// suffix as a substring (e.g. "evil-storage.example.com.attacker.net") fails.
func (v *URLValidator) IsValid(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" {
		return false
	}
	host := parsed.Hostname()
	if !strings.HasSuffix(host, v.hostSuffix) {
		return false
	}
	// Require a non-empty label before the suffix.
	if len(host) <= len(v.hostSuffix) {
		return false
	}
	return strings.HasPrefix(parsed.Path, v.pathPrefix)
}
