package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email is a shallow shape check, not RFC validation. Deliverability is
// the identity provider's problem.
func Email(value string) bool {
	v := strings.TrimSpace(value)
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 {
		return false
	}
	domain := v[at+1:]
	return !strings.Contains(domain, "@") && strings.Contains(domain, ".")
}

func IndexInRange(index, length int) bool {
	return index >= 0 && index < length
}
