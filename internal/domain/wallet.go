package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxUsernameLength bounds display names in runes
const MaxUsernameLength = 32

// NormalizeWallet lower-cases a 0x-prefixed 20-byte hex address. Wallets are
// stored and compared in this form everywhere.
func NormalizeWallet(wallet string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(wallet))
	if len(w) != 42 || !strings.HasPrefix(w, "0x") {
		return "", fmt.Errorf("%w: wallet %q", ErrInvalidInput, wallet)
	}
	for _, c := range w[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: wallet %q", ErrInvalidInput, wallet)
		}
	}
	return w, nil
}

// NormalizeUsername returns the NFKC display form of name and a case-folded
// key used for uniqueness checks.
func NormalizeUsername(name string) (display, key string, err error) {
	display = strings.TrimSpace(norm.NFKC.String(name))
	if display == "" || utf8.RuneCountInString(display) > MaxUsernameLength {
		return "", "", fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, MaxUsernameLength)
	}
	return display, cases.Fold().String(display), nil
}
