package service

import (
	"fmt"
	"strings"

	"formrelay/internal/domain"
	"formrelay/internal/mail"
)

// Префиксы тем писем
const (
	ApplicationAckPrefix          = "Application Received: "
	ApplicationNotificationPrefix = "New Job Application: "
	InquiryAckPrefix              = "DO NOT REPLY "
	InquiryNotificationPrefix     = "" // Тема обращения передаётся HR без изменений
)

// Строки о резюме во внутреннем уведомлении
const (
	resumeAttached    = "Resume attached."
	resumeNotAttached = "No resume attached."
)

// applicationAck — подтверждение кандидату
// Вложение сюда никогда не попадает
func applicationAck(app *domain.JobApplication, company string) *mail.Message {
	body := fmt.Sprintf("Hello %s,\n\n"+
		"Thank you for applying. We have received your application.\n\n"+
		"Our team will get back to you soon.\n\n"+
		"Best regards,\n%s", app.FullName(), company)

	return &mail.Message{
		To:      []string{app.Email},
		Subject: ApplicationAckPrefix + app.JobDetail,
		Text:    body,
	}
}

// applicationNotification — уведомление HR со всеми полями анкеты
func applicationNotification(app *domain.JobApplication, hrEmail string) *mail.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "New job application from %s (%s).\n\n", app.FullName(), app.Email)
	fmt.Fprintf(&b, "Position: %s\n", app.JobDetail)
	fmt.Fprintf(&b, "Mobile: %s\n", app.Mobile)
	fmt.Fprintf(&b, "Primary Skills: %s\n", app.PrimarySkills)
	fmt.Fprintf(&b, "Current Designation: %s\n", app.CurrentDesignation)
	fmt.Fprintf(&b, "US Citizen: %s\n", app.USCitizen)
	fmt.Fprintf(&b, "Visa Sponsorship: %s\n\n", app.VisaSponsorship)
	fmt.Fprintf(&b, "Message: %s\n\n", app.Message)

	msg := &mail.Message{
		To:      []string{hrEmail},
		Subject: ApplicationNotificationPrefix + app.JobDetail,
	}

	if app.HasAttachment() {
		b.WriteString(resumeAttached)
		msg.Attachments = []mail.Attachment{{
			Filename:    app.Attachment.Filename,
			ContentType: app.Attachment.ContentType,
			Data:        app.Attachment.Data,
		}}
	} else {
		b.WriteString(resumeNotAttached)
	}

	msg.Text = b.String()
	return msg
}

// inquiryAck — подтверждение автору обращения
func inquiryAck(inq *domain.Inquiry, company string) *mail.Message {
	body := fmt.Sprintf("Hello %s,\n\n"+
		"We have received your inquiry.\n\n"+
		"Our team will get back to you soon.\n\n"+
		"Best regards,\n%s", inq.Name, company)

	return &mail.Message{
		To:      []string{inq.Email},
		Subject: InquiryAckPrefix + inq.Subject,
		Text:    body,
	}
}

// inquiryNotification — обращение пересылается HR
func inquiryNotification(inq *domain.Inquiry, hrEmail string) *mail.Message {
	return &mail.Message{
		To:      []string{hrEmail},
		Subject: InquiryNotificationPrefix + inq.Subject,
		Text:    fmt.Sprintf("Message from %s (%s)\n\n%s", inq.Name, inq.Email, inq.Message),
	}
}
