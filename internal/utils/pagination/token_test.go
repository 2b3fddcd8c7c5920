package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	// Test case 1: Standard date value
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	token := EncodeDateBasedToken(date)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeDateBasedToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, decoded, "Date should match after decode")

	// Test case 2: Zero time value
	zeroTime := time.Time{}
	zeroToken := EncodeDateBasedToken(zeroTime)
	decodedZero, err := DecodeDateBasedToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZero, "Zero time should match after decode")

	// Test case 3: Current time with nanosecond precision
	now := time.Now().UTC()
	nowToken := EncodeDateBasedToken(now)
	decodedNow, err := DecodeDateBasedToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeDateBasedTokenError(t *testing.T) {
	// Test invalid base64
	_, err := DecodeDateBasedToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid date format (valid base64, not a date)
	_, err = DecodeDateBasedToken("bm90YWRhdGU=") // "notadate"
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "date parse", "Error should mention date parsing")
}

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	// Round-trip the entry listing cursor shape: date plus ID tiebreaker
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	token := EncodeMultiFieldToken(date.Format(time.RFC3339Nano), "42")

	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Len(t, fields, 2, "Should decode both fields")
	assert.Equal(t, date.Format(time.RFC3339Nano), fields[0], "First field should be the date")
	assert.Equal(t, "42", fields[1], "Second field should be the ID")

	parsed, err := time.Parse(time.RFC3339Nano, fields[0])
	assert.NoError(t, err, "First field should parse back to a time")
	assert.Equal(t, date, parsed)
}

func TestDecodeMultiFieldTokenError(t *testing.T) {
	_, err := DecodeMultiFieldToken("%%% not base64 %%%")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")
}

func TestMultiFieldToken_SingleField(t *testing.T) {
	token := EncodeMultiFieldToken("only")
	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"only"}, fields)
}
