package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"fiich/config"
)

// Embedded email templates
var emailTemplates = map[string]string{
	"invitation": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; padding: 10px 20px; background-color: #3498db; color: white; text-decoration: none; border-radius: 4px; }
        .message { background-color: #f8f9fa; border-left: 3px solid #3498db; padding: 10px 15px; margin: 15px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You've been invited to view {{.CompanyName}}</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterEmail}} invited you to access the company profile of <strong>{{.CompanyName}}</strong> on Fiich.</p>

        {{if .Message}}<div class="message">{{.Message}}</div>{{end}}

        <p style="text-align: center;">
            <a href="{{.InviteLink}}" class="button">Accept Invitation</a>
        </p>

        <p>This invitation expires in 7 days.</p>

        <p>Or copy and paste this link into your browser:<br>
        <small>{{.InviteLink}}</small></p>
    </div>

    <div class="footer">
        <p>If you weren't expecting this invitation, you can safely ignore this email.</p>
        <p>© {{.Year}} Fiich. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	smtp   config.SMTPConfig
	appURL string
	logger *log.Logger
}

func NewMailer(logger *log.Logger) *Mailer {
	return &Mailer{
		smtp:   config.AppConfig.SMTP,
		appURL: config.AppConfig.AppURL,
		logger: logger,
	}
}

// SendInvitationEmail sends the deep link embedding the invitation token.
func (m *Mailer) SendInvitationEmail(to, companyName, inviterEmail, token, message string) error {
	inviteLink := fmt.Sprintf("%s/invitations/accept?token=%s", m.appURL, token)

	data := struct {
		Subject      string
		CompanyName  string
		InviterEmail string
		InviteLink   string
		Message      string
		Year         int
	}{
		Subject:      fmt.Sprintf("Invitation to view %s on Fiich", companyName),
		CompanyName:  companyName,
		InviterEmail: inviterEmail,
		InviteLink:   inviteLink,
		Message:      message,
		Year:         time.Now().Year(),
	}

	return m.send(to, data.Subject, "invitation", data)
}

func (m *Mailer) send(to, subject, templateName string, data interface{}) error {
	if m.smtp.Host == "" {
		return fmt.Errorf("email configuration not initialized")
	}

	tmplContent, ok := emailTemplates[templateName]
	if !ok {
		return fmt.Errorf("template '%s' not found", templateName)
	}

	tmpl, err := template.New("email").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("error parsing template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.smtp.FromName, m.smtp.FromEmail))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.smtp.Host, m.smtp.Port, m.smtp.Username, m.smtp.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}

	m.logger.Printf("Invitation email sent to %s", to)
	return nil
}
