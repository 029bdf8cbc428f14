package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"masingacdf_backend/internals/configs"
	"masingacdf_backend/internals/features/applications/model"
)

func TestChannelResult_Delivered(t *testing.T) {
	assert.False(t, ChannelResult{}.Delivered())
	assert.True(t, ChannelResult{EmailSent: true}.Delivered())
	assert.True(t, ChannelResult{SMSSent: true}.Delivered())
	assert.True(t, ChannelResult{EmailSent: true, SMSSent: true}.Delivered())
}

func TestNotifyApplicationReceived_DisabledChannelsSkipAndSucceed(t *testing.T) {
	mgr := NewNotificationManager(
		NewEmailService(configs.SMTPConfig{}),
		NewSMSService(configs.SMSConfig{}),
	)

	app := &model.BursaryApplication{
		FullName:        "Jane Mwikali",
		ReferenceNumber: "MNG-9F3A01BC",
		Email:           "jane@example.com",
		PhoneNumber:     "0712345678",
	}

	t.Run("with consent both channels fire", func(t *testing.T) {
		app.CommunicationConsent = true
		res := mgr.NotifyApplicationReceived(app)
		assert.True(t, res.EmailSent)
		assert.True(t, res.SMSSent)
		assert.True(t, res.Delivered())
	})

	t.Run("without consent SMS stays quiet", func(t *testing.T) {
		app.CommunicationConsent = false
		res := mgr.NotifyApplicationReceived(app)
		assert.True(t, res.EmailSent)
		assert.False(t, res.SMSSent)
		assert.True(t, res.Delivered())
	})
}
