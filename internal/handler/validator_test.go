package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletStruct struct {
	Wallet string `validate:"required,wallet"`
	Key    string `validate:"max=128,excludesall=\x00\n\r\t"`
}

func TestValidator_WalletValidation(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		wallet  string
		wantErr bool
	}{
		{"lower case", "0x00000000000000000000000000000000000000aa", false},
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},

		{"missing prefix", "00000000000000000000000000000000000000aa", true},
		{"too short", "0x00aa", true},
		{"one digit too long", "0x00000000000000000000000000000000000000aa0", true},
		{"non hex", "0x00000000000000000000000000000000000000zz", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(walletStruct{Wallet: tt.wallet})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_IdempotencyKey(t *testing.T) {
	v := GetValidator()
	wallet := "0x00000000000000000000000000000000000000aa"

	assert.NoError(t, v.ValidateStruct(walletStruct{Wallet: wallet, Key: strings.Repeat("k", 128)}))
	assert.Error(t, v.ValidateStruct(walletStruct{Wallet: wallet, Key: strings.Repeat("k", 129)}))
	assert.Error(t, v.ValidateStruct(walletStruct{Wallet: wallet, Key: "a\nb"}))
}

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(walletStruct{Wallet: "nope", Key: "a\tb"})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Must be a 0x-prefixed 20-byte hex address", fields["wallet"])
	assert.Equal(t, "Contains invalid characters", fields["key"])

	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(assert.AnError))
	assert.Nil(t, FormatValidationError(nil))
}

func TestFormatValidationError_UsesJSONNames(t *testing.T) {
	req := ConfirmClaimRequest{
		Wallet:      "0x00000000000000000000000000000000000000aa",
		Nonce:       1,
		TxReference: "0xdead beef",
		SettledAt:   new(int64),
	}

	fields := FormatValidationError(GetValidator().ValidateStruct(req))
	assert.Equal(t, "Contains invalid characters", fields["txReference"])
	assert.Equal(t, "Must be greater than 0", fields["settledAt"])
	assert.Len(t, fields, 2)
}
