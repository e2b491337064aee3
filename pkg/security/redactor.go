package security

import (
	"sort"
	"strings"
)

// Redactor scrubs secret values out of strings before they reach a log sink.
type Redactor struct {
	Secrets []string
}

func NewRedactor(secrets []string) *Redactor {
	var values []string
	for _, s := range secrets {
		if s != "" {
			values = append(values, s)
		}
	}
	return &Redactor{Secrets: values}
}

func (r *Redactor) Redact(s string) string {
	if r == nil || len(r.Secrets) == 0 {
		return s
	}

	// Sort secrets by length in descending order so longer secrets are
	// replaced before their substrings.
	secrets := make([]string, len(r.Secrets))
	copy(secrets, r.Secrets)
	sort.Slice(secrets, func(i, j int) bool {
		return len(secrets[i]) > len(secrets[j])
	})

	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "********")
	}
	return s
}
