package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "json array", raw: `["go","sql"]`, want: []string{"go", "sql"}},
		{name: "json null", raw: "null", want: []string{}},
		{name: "comma list", raw: "go, sql ,, ops", want: []string{"go", "sql", "ops"}},
		{name: "broken json", raw: `["go"`, want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseTags(tc.raw))
		})
	}
}

func TestSerializeTagsDropsBlanks(t *testing.T) {
	assert.Equal(t, `["go","ops"]`, SerializeTags([]string{" go ", "", "ops"}))
	assert.Equal(t, `[]`, SerializeTags(nil))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "employee@company.com", NormalizeEmail("  Employee@Company.COM "))
}

func TestRegistrationTokenExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &RegistrationToken{ExpiresAt: now}
	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(time.Second)))
}
