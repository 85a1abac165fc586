package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

// maxRegistrationCodeAttempts bounds the search for a code no pending
// registration already holds.
const maxRegistrationCodeAttempts = 5

const registrationCodeDigits = 8

var (
	registrationCodeSpace = big.NewInt(100_000_000)

	tokenParam = regexp.MustCompile(`(?i)token=([^&]+)`)
	emailParam = regexp.MustCompile(`(?i)email=([^&]+)`)
)

func randomRegistrationCode() (string, error) {
	n, err := rand.Int(rand.Reader, registrationCodeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", registrationCodeDigits, n.Int64()), nil
}

// generateRegistrationCode draws an 8-digit code that is not held by any
// unused token. After maxRegistrationCodeAttempts collisions it returns an
// unchecked code.
func generateRegistrationCode(ctx context.Context, regs registrationStore, draw func() (string, error)) (string, error) {
	for attempt := 0; attempt < maxRegistrationCodeAttempts; attempt++ {
		code, err := draw()
		if err != nil {
			return "", err
		}
		taken, err := regs.UnusedTokenExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return draw()
}

// NormalizeIncomingToken extracts the bare code from what a user pasted:
// the confirmation link, a query fragment containing token=..., or the
// code itself. The email carried alongside the token, if any, is returned
// as well.
func NormalizeIncomingToken(raw string) (code, email string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ""
	}

	if u, err := url.Parse(trimmed); err == nil && u.Scheme != "" && u.Host != "" {
		q := u.Query()
		if t := q.Get("token"); t != "" {
			return t, q.Get("email")
		}
	}

	if m := tokenParam.FindStringSubmatch(trimmed); m != nil {
		code = unescape(m[1])
		if e := emailParam.FindStringSubmatch(trimmed); e != nil {
			email = unescape(e[1])
		}
		return code, email
	}

	return trimmed, ""
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

func confirmationLink(baseURL, code, email string) string {
	q := url.Values{}
	q.Set("token", code)
	q.Set("email", email)
	return strings.TrimRight(baseURL, "/") + "/register?" + q.Encode()
}
