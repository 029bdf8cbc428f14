package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"masingacdf_backend/internals/configs"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "+254712345678"},
		{"0112345678", "+254112345678"},
		{"254712345678", "+254712345678"},
		{"+254712345678", "+254712345678"},
		{"0712 345 678", "+254712345678"},
		{"0712-345-678", "+254712345678"},
		{" 0712345678 ", "+254712345678"},
		// Unrecognized shapes pass through untouched
		{"12345", "12345"},
		{"+14155550100", "+14155550100"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPhoneNumber(tc.in))
		})
	}
}

func TestSendSMS_SkipsWhenUnconfigured(t *testing.T) {
	svc := NewSMSService(configs.SMSConfig{})
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.SendSMS("0712345678", "hello"))
}

func TestSendBulk_ReportsPerRecipient(t *testing.T) {
	svc := NewSMSService(configs.SMSConfig{})

	results := svc.SendBulk([]string{"0712345678", "0798765432"}, "reminder")
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Sent)
		assert.Empty(t, r.Error)
	}
	assert.Equal(t, "+254712345678", results[0].Phone)
}
