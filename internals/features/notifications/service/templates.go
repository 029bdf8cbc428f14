package service

import (
	"fmt"
	"strconv"
	"strings"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
)

// formatKES renders an amount with thousands separators, e.g. "KSh 25,000".
func formatKES(amount int) string {
	s := strconv.Itoa(amount)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return "KSh " + b.String()
}

func confirmationSubject(app *model.BursaryApplication) string {
	return fmt.Sprintf("Bursary Application Received - %s", app.ReferenceNumber)
}

func confirmationPlain(app *model.BursaryApplication) string {
	return fmt.Sprintf(`Dear %s,

Your bursary application has been received successfully.

Reference Number: %s
Institution: %s
Amount Requested: %s

Keep your reference number safe. You will need it to check your
application status or make changes within 24 hours of submission.

Masinga CDF Bursary Committee`,
		app.FullName, app.ReferenceNumber, app.InstitutionName, formatKES(app.Amount))
}

func confirmationHTML(app *model.BursaryApplication) string {
	return fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333">
<h2 style="color:#1a6e3c">Application Received</h2>
<p>Dear %s,</p>
<p>Your bursary application has been received successfully.</p>
<table style="border-collapse:collapse">
<tr><td style="padding:4px 12px 4px 0"><b>Reference Number</b></td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0"><b>Institution</b></td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0"><b>Amount Requested</b></td><td>%s</td></tr>
</table>
<p>Keep your reference number safe. You will need it to check your
application status or make changes within 24 hours of submission.</p>
<p>Masinga CDF Bursary Committee</p>
</body></html>`,
		app.FullName, app.ReferenceNumber, app.InstitutionName, formatKES(app.Amount))
}

func statusSubject(app *model.BursaryApplication) string {
	switch app.Status {
	case constants.StatusApproved:
		return fmt.Sprintf("Bursary Application Approved - %s", app.ReferenceNumber)
	case constants.StatusRejected:
		return fmt.Sprintf("Bursary Application Update - %s", app.ReferenceNumber)
	default:
		return fmt.Sprintf("Bursary Application Status - %s", app.ReferenceNumber)
	}
}

func statusPlain(app *model.BursaryApplication, reason string) string {
	var body string
	switch app.Status {
	case constants.StatusApproved:
		body = fmt.Sprintf("Congratulations! Your bursary application %s has been APPROVED for %s.\nThe funds will be disbursed directly to %s.",
			app.ReferenceNumber, formatKES(app.Amount), app.InstitutionName)
	case constants.StatusRejected:
		body = fmt.Sprintf("We regret to inform you that your bursary application %s was not successful.",
			app.ReferenceNumber)
		if reason != "" {
			body += "\nReason: " + reason
		}
		body += "\nYou may submit a new application after 3 months."
	default:
		body = fmt.Sprintf("Your bursary application %s is now %s.", app.ReferenceNumber, app.Status)
	}

	return fmt.Sprintf("Dear %s,\n\n%s\n\nMasinga CDF Bursary Committee", app.FullName, body)
}

func statusHTML(app *model.BursaryApplication, reason string) string {
	color := "#555"
	heading := "Application Update"
	switch app.Status {
	case constants.StatusApproved:
		color = "#1a6e3c"
		heading = "Application Approved"
	case constants.StatusRejected:
		color = "#a33"
		heading = "Application Not Successful"
	}
	plain := statusPlain(app, reason)
	paragraphs := strings.ReplaceAll(plain, "\n\n", "</p><p>")
	paragraphs = strings.ReplaceAll(paragraphs, "\n", "<br>")
	return fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333">
<h2 style="color:%s">%s</h2><p>%s</p></body></html>`, color, heading, paragraphs)
}

// SMS templates stay under 160 chars where possible; long names may
// push into a second segment, which the gateway handles.

func smsApplicationReceived(app *model.BursaryApplication) string {
	return fmt.Sprintf("Masinga CDF: Your bursary application has been received. Ref: %s. Keep this number safe.",
		app.ReferenceNumber)
}

func smsStatusChange(app *model.BursaryApplication) string {
	switch app.Status {
	case constants.StatusApproved:
		return fmt.Sprintf("Masinga CDF: Congratulations! Application %s APPROVED for %s, payable to %s.",
			app.ReferenceNumber, formatKES(app.Amount), app.InstitutionName)
	case constants.StatusRejected:
		return fmt.Sprintf("Masinga CDF: Application %s was not successful. You may reapply after 3 months.",
			app.ReferenceNumber)
	default:
		return fmt.Sprintf("Masinga CDF: Application %s status is now %s.", app.ReferenceNumber, app.Status)
	}
}

func smsGuardianApproved(app *model.BursaryApplication) string {
	return fmt.Sprintf("Masinga CDF: The bursary application for %s (Ref %s) has been approved for %s.",
		app.FullName, app.ReferenceNumber, formatKES(app.Amount))
}

// SMSDeadlineReminder is sent to pending applicants shortly before the
// window closes.
func SMSDeadlineReminder(deadlineName string, daysLeft int) string {
	if daysLeft == 1 {
		return fmt.Sprintf("Masinga CDF: Reminder - %s closes tomorrow. Complete or update your application now.", deadlineName)
	}
	return fmt.Sprintf("Masinga CDF: Reminder - %s closes in %d days. Complete or update your application now.", deadlineName, daysLeft)
}
