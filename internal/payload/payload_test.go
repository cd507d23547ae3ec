package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	msg, err := Parse([]byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"2025-01-01T00:00:00Z","text":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, "m1", msg.MessageID)
	assert.Equal(t, "+1", msg.FromAddress)
	assert.Equal(t, "+2", msg.ToAddress)
	assert.Equal(t, "2025-01-01T00:00:00Z", msg.Timestamp)
	require.NotNil(t, msg.Text)
	assert.Equal(t, "hi", *msg.Text)
	assert.Empty(t, msg.CreatedAt)
}

func TestParseOptionalText(t *testing.T) {
	msg, err := Parse([]byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"x"}`))
	require.NoError(t, err)
	assert.Nil(t, msg.Text)

	msg, err = Parse([]byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"x","text":null}`))
	require.NoError(t, err)
	assert.Nil(t, msg.Text)
}

func TestParseTimestampVerbatim(t *testing.T) {
	msg, err := Parse([]byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"not a date at all"}`))
	require.NoError(t, err)
	assert.Equal(t, "not a date at all", msg.Timestamp)
}

func TestParseTextLimitCountsCharacters(t *testing.T) {
	// 4096 multi-byte characters are still within the limit
	text := strings.Repeat("é", MaxTextLength)
	msg, err := Parse([]byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"x","text":"` + text + `"}`))
	require.NoError(t, err)
	assert.Equal(t, text, *msg.Text)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		reason string
	}{
		{"empty body", []byte(""), "Empty request body"},
		{"invalid utf-8", []byte{0xff, 0xfe, '{', '}'}, "Invalid UTF-8 encoding"},
		{"malformed json", []byte("{not json"), "Invalid JSON"},
		{"json array", []byte(`[{"message_id":"m1"}]`), "Request body must be a JSON object"},
		{"json string", []byte(`"hello"`), "Request body must be a JSON object"},
		{"json null", []byte(`null`), "Request body must be a JSON object"},
		{"missing message_id", []byte(`{"from":"+1","to":"+2","ts":"x"}`), "field 'message_id' is required"},
		{"empty message_id", []byte(`{"message_id":"","from":"+1","to":"+2","ts":"x"}`), "field 'message_id' must not be empty"},
		{"missing from", []byte(`{"message_id":"m1","to":"+2","ts":"x"}`), "field 'from' is required"},
		{"missing to", []byte(`{"message_id":"m1","from":"+1","ts":"x"}`), "field 'to' is required"},
		{"missing ts", []byte(`{"message_id":"m1","from":"+1","to":"+2"}`), "field 'ts' is required"},
		{"numeric from", []byte(`{"message_id":"m1","from":1,"to":"+2","ts":"x"}`), "field 'from' must be a string"},
		{"numeric text", []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"x","text":5}`), "field 'text' must be a string"},
		{"upper-case keys only", []byte(`{"MESSAGE_ID":"m1","From":"+1","TO":"+2","Ts":"x"}`), "field 'message_id' is required"},
		{"mixed-case ts", []byte(`{"message_id":"m1","from":"+1","to":"+2","TS":"x"}`), "field 'ts' is required"},
		{"message_id too long", []byte(`{"message_id":"` + strings.Repeat("m", MaxKeyLength+1) + `","from":"+1","to":"+2","ts":"x"}`), "field 'message_id' must be at most 768 characters"},
		{"ts too long", []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"` + strings.Repeat("1", MaxKeyLength+1) + `"}`), "field 'ts' must be at most 768 characters"},
		{"text too long", []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"x","text":"` + strings.Repeat("a", MaxTextLength+1) + `"}`), "field 'text' must be at most 4096 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Parse(tt.body)
			assert.Nil(t, msg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.reason, Reason(err))
		})
	}
}

func TestParseIgnoresKeysWithOtherCase(t *testing.T) {
	msg, err := Parse([]byte(`{"message_id":"m1","MESSAGE_ID":"m2","Message_Id":"m3","from":"+1","to":"+2","ts":"x","Text":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.MessageID)
	assert.Nil(t, msg.Text)
}

func TestParseKeyLengthBoundary(t *testing.T) {
	id := strings.Repeat("é", MaxKeyLength)
	msg, err := Parse([]byte(`{"message_id":"` + id + `","from":"+1","to":"+2","ts":""}`))
	require.NoError(t, err)
	assert.Equal(t, id, msg.MessageID)
	assert.Equal(t, "", msg.Timestamp)
}
