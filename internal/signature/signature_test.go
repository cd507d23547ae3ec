package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignKnownVector(t *testing.T) {
	// RFC 4231 test case 2
	got := Sign("Jefe", []byte("what do ya want for nothing?"))
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}

func TestVerify(t *testing.T) {
	body := []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"2025-01-01T00:00:00Z","text":"hi"}`)
	valid := Sign("testsecret", body)

	tests := []struct {
		name      string
		secret    string
		signature string
		wantErr   error
	}{
		{"valid", "testsecret", valid, nil},
		{"empty secret", "", valid, ErrSecretNotConfigured},
		{"missing signature", "testsecret", "", ErrMissingSignature},
		{"wrong signature", "testsecret", "123", ErrInvalidSignature},
		{"upper-case hex", "testsecret", strings.ToUpper(valid), ErrInvalidSignature},
		{"other secret", "othersecret", valid, ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.secret, body, tt.signature)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestVerifyTamperedBody(t *testing.T) {
	sig := Sign("testsecret", []byte(`{"message_id":"m1"}`))
	assert.ErrorIs(t, Verify("testsecret", []byte(`{"message_id":"m2"}`), sig), ErrInvalidSignature)
}

func TestVerifier(t *testing.T) {
	v := NewVerifier("testsecret")
	assert.True(t, v.Configured())
	assert.NoError(t, v.Verify([]byte("body"), Sign("testsecret", []byte("body"))))

	empty := NewVerifier("")
	assert.False(t, empty.Configured())
	assert.ErrorIs(t, empty.Verify([]byte("body"), Sign("", []byte("body"))), ErrSecretNotConfigured)
}
