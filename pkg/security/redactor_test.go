package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/upshift-dev/upshift/pkg/security"
)

func TestRedactor_Redact(t *testing.T) {
	tests := []struct {
		name    string
		secrets []string
		input   string
		want    string
	}{
		{
			name:    "exact match",
			secrets: []string{"supersecret"},
			input:   "The db password is supersecret",
			want:    "The db password is ********",
		},
		{
			name:    "multiple occurrences",
			secrets: []string{"abcdef"},
			input:   "psql -W abcdef failed, retry with abcdef",
			want:    "psql -W ******** failed, retry with ********",
		},
		{
			name:    "substring of another word",
			secrets: []string{"key"},
			input:   "The keyboard has keys for typing. The key is important.",
			want:    "The ********board has ********s for typing. The ******** is important.",
		},
		{
			name:    "multiple secrets",
			secrets: []string{"pass123", "key456"},
			input:   "Password: pass123, API Key: key456",
			want:    "Password: ********, API Key: ********",
		},
		{
			name:    "empty secret is skipped",
			secrets: []string{"", "valid"},
			input:   "Empty: , Valid: valid",
			want:    "Empty: , Valid: ********",
		},
		{
			name:    "no secrets returns original string",
			secrets: nil,
			input:   "Original string",
			want:    "Original string",
		},
		{
			name:    "overlapping secrets replace longest first",
			secrets: []string{"secret", "supersecret"},
			input:   "supersecret contains secret",
			want:    "******** contains ********",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := security.NewRedactor(tt.secrets)
			assert.Equal(t, tt.want, r.Redact(tt.input))
		})
	}
}

func TestRedactor_NilReceiver(t *testing.T) {
	var r *security.Redactor
	assert.Equal(t, "untouched", r.Redact("untouched"))
}

func TestNewRedactor_DropsEmptyValues(t *testing.T) {
	r := security.NewRedactor([]string{"", "a", ""})
	assert.Equal(t, []string{"a"}, r.Secrets)
}
