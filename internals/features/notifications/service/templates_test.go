package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"masingacdf_backend/internals/configs"
	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
)

func configsDisabled() configs.SMTPConfig {
	return configs.SMTPConfig{}
}

func TestFormatKES(t *testing.T) {
	assert.Equal(t, "KSh 500", formatKES(500))
	assert.Equal(t, "KSh 25,000", formatKES(25000))
	assert.Equal(t, "KSh 1,250,000", formatKES(1250000))
}

func TestConfirmationTemplates(t *testing.T) {
	app := &model.BursaryApplication{
		FullName:        "Jane Mwikali",
		ReferenceNumber: "MNG-9F3A01BC",
		InstitutionName: "Machakos University",
		Amount:          25000,
	}

	assert.Contains(t, confirmationSubject(app), "MNG-9F3A01BC")

	plain := confirmationPlain(app)
	assert.Contains(t, plain, "Jane Mwikali")
	assert.Contains(t, plain, "KSh 25,000")
	assert.Contains(t, plain, "24 hours")

	html := confirmationHTML(app)
	assert.Contains(t, html, "MNG-9F3A01BC")
}

func TestStatusTemplates(t *testing.T) {
	app := &model.BursaryApplication{
		FullName:        "Jane Mwikali",
		ReferenceNumber: "MNG-9F3A01BC",
		InstitutionName: "Machakos University",
		Amount:          25000,
	}

	t.Run("approved", func(t *testing.T) {
		app.Status = constants.StatusApproved
		assert.Contains(t, statusSubject(app), "Approved")
		assert.Contains(t, statusPlain(app, ""), "APPROVED")
		assert.Contains(t, smsStatusChange(app), "Congratulations")
		assert.Contains(t, smsGuardianApproved(app), "Jane Mwikali")
	})

	t.Run("rejected carries the reason and cooldown", func(t *testing.T) {
		app.Status = constants.StatusRejected
		plain := statusPlain(app, "Incomplete documents")
		assert.Contains(t, plain, "Incomplete documents")
		assert.Contains(t, plain, "3 months")
		assert.Contains(t, smsStatusChange(app), "3 months")
	})
}

func TestSMSDeadlineReminder(t *testing.T) {
	assert.Contains(t, SMSDeadlineReminder("2026 Intake", 1), "tomorrow")
	assert.Contains(t, SMSDeadlineReminder("2026 Intake", 3), "3 days")
}

func TestBulkEmailService_CountsWithDisabledSMTP(t *testing.T) {
	// Disabled SMTP makes Send a logged no-op, which counts as success
	bulk := NewBulkEmailService(NewEmailService(configsDisabled()))

	items := []BulkEmailItem{
		{To: "a@example.com", Subject: "s", PlainBody: "b"},
		{To: "b@example.com", Subject: "s", PlainBody: "b"},
		{To: "c@example.com", Subject: "s", PlainBody: "b"},
	}
	report := bulk.SendBatch(items)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Success)
	assert.Empty(t, report.Failed)

	empty := bulk.SendBatch(nil)
	assert.Equal(t, 0, empty.Total)
}
