package model

import "strings"

// Bot is a tenant: an integration whose end-users consume the broker
// through the tenant's wallet balance and markup percent. APIKey and
// ResourceLink address the upstream provider; PublicKey/PrivateKey
// address the wallet platform.
type Bot struct {
	ID           int64
	PublicKey    string
	PrivateKey   string
	APIKey       string
	ResourceLink string
	Percent      int
	CategoryID   int64
	Black        *string
	Retail       bool
}

// Blacklist returns the tenant's excluded service codes.
func (b *Bot) Blacklist() []string {
	if b.Black == nil || *b.Black == "" {
		return nil
	}
	parts := strings.Split(*b.Black, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Blacklisted reports whether the tenant excludes the given service.
func (b *Bot) Blacklisted(service string) bool {
	for _, s := range b.Blacklist() {
		if s == service {
			return true
		}
	}
	return false
}
