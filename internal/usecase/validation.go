package usecase

import "strings"

// ValidSMSCode checks a provider-delivered payload before it is billed
// and persisted. Providers report empty mailboxes with placeholder
// strings, which must never count as a delivered code.
func ValidSMSCode(code string) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) < 4 {
		return false
	}
	switch trimmed {
	case "[]", "[ ]", `""`:
		return false
	}
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
