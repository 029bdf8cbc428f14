package service

import (
	"log"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
)

// NotificationManager fans one event out to every configured channel.
// Channel failures are independent: a dead SMS gateway never blocks
// the confirmation email.
type NotificationManager struct {
	Email *EmailService
	SMS   *SMSService
}

func NewNotificationManager(email *EmailService, sms *SMSService) *NotificationManager {
	return &NotificationManager{Email: email, SMS: sms}
}

type ChannelResult struct {
	EmailSent bool `json:"email_sent"`
	SMSSent   bool `json:"sms_sent"`
}

// Delivered reports whether at least one channel got the message out.
// Unconfigured channels skip-and-succeed, so a bare dev setup still
// counts as delivered.
func (r ChannelResult) Delivered() bool {
	return r.EmailSent || r.SMSSent
}

// NotifyApplicationReceived sends the submission confirmation over
// email and SMS. Applicants who withheld communication consent only
// get the email receipt.
func (m *NotificationManager) NotifyApplicationReceived(app *model.BursaryApplication) ChannelResult {
	var result ChannelResult

	if err := m.Email.Send(app.Email, confirmationSubject(app), confirmationPlain(app), confirmationHTML(app)); err != nil {
		log.Printf("[ERROR] confirmation email for %s: %v", app.ReferenceNumber, err)
	} else {
		result.EmailSent = true
	}

	if app.CommunicationConsent {
		if err := m.SMS.SendSMS(app.PhoneNumber, smsApplicationReceived(app)); err != nil {
			log.Printf("[ERROR] confirmation SMS for %s: %v", app.ReferenceNumber, err)
		} else {
			result.SMSSent = true
		}
	}

	return result
}

// NotifyStatusChange informs the applicant of a status transition.
// Approvals also copy the guardian's phone when one was given.
func (m *NotificationManager) NotifyStatusChange(app *model.BursaryApplication, reason string) ChannelResult {
	var result ChannelResult

	if err := m.Email.Send(app.Email, statusSubject(app), statusPlain(app, reason), statusHTML(app, reason)); err != nil {
		log.Printf("[ERROR] status email for %s: %v", app.ReferenceNumber, err)
	} else {
		result.EmailSent = true
	}

	if app.CommunicationConsent {
		if err := m.SMS.SendSMS(app.PhoneNumber, smsStatusChange(app)); err != nil {
			log.Printf("[ERROR] status SMS for %s: %v", app.ReferenceNumber, err)
		} else {
			result.SMSSent = true
		}

		if app.Status == constants.StatusApproved && app.GuardianPhone != "" {
			if err := m.SMS.SendSMS(app.GuardianPhone, smsGuardianApproved(app)); err != nil {
				log.Printf("[ERROR] guardian SMS for %s: %v", app.ReferenceNumber, err)
			}
		}
	}

	return result
}
