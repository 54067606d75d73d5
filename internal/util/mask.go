package util

import "strings"

// MaskEmail reduce un email a su mínima expresión reconocible, para que los
// logs nunca carguen la dirección completa: "ana@example.com" → "a…@e….com".
func MaskEmail(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return ""
	}

	user, dom, ok := strings.Cut(addr, "@")
	if !ok || user == "" {
		// Sin parte local no hay estructura que conservar.
		if len(addr) <= 3 {
			return "***"
		}
		return addr[:1] + "…" + addr[len(addr)-1:]
	}

	if len(user) > 1 {
		user = user[:1] + "…"
	}
	if head, rest, hasDot := strings.Cut(dom, "."); hasDot {
		if len(head) > 1 {
			head = head[:1] + "…"
		}
		dom = head + "." + rest
	} else if len(dom) > 1 {
		dom = dom[:1] + "…"
	}
	return user + "@" + dom
}
