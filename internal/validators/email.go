package validators

import (
	"net"
	"strings"
)

// EmailCheck reports whether an address may be used for a new account.
type EmailCheck func(email string) bool

// NewEmailCheck returns the DNS-backed check when verify is set and a
// format-only check otherwise.
func NewEmailCheck(verify bool) EmailCheck {
	if verify {
		return IsEmailDomainValid
	}
	return hasDomain
}

func IsEmailDomainValid(email string) bool {
	if !hasDomain(email) {
		return false
	}

	domain := email[strings.LastIndex(email, "@")+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

func hasDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}
