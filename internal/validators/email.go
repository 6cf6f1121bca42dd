package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address's domain can receive
// mail: it must carry MX records, or at least resolve at all. Catches
// typo'd registration domains before an account is created.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	// No MX is still deliverable if the domain itself resolves.
	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
