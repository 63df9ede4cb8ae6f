package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"pipecrm/config"
)

var inviteTemplate = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>You've been added to {{.Organization}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Welcome to {{.Organization}}</h2>
    <p>Hello,</p>
    <p>You have been added to the organization <strong>{{.Organization}}</strong> with the role <strong>{{.Role}}</strong>.</p>
    <p>Log in to start working with your team's contacts and deals.</p>
    <p style="margin-top: 30px; font-size: 12px; color: #7f8c8d;">© {{.Year}} PipeCRM</p>
</body>
</html>`))

type inviteData struct {
	Organization string
	Role         string
	Year         int
}

// SendMemberInviteEmail notifies a user that they were added to an
// organization. Failures are logged by the caller; delivery is best effort.
func SendMemberInviteEmail(to, organization, role string) error {
	if config.AppConfig.SMTPHost == "" {
		logrus.WithField("to", to).Debug("smtp not configured, skipping invite email")
		return nil
	}

	var body bytes.Buffer
	if err := inviteTemplate.Execute(&body, inviteData{
		Organization: organization,
		Role:         role,
		Year:         time.Now().Year(),
	}); err != nil {
		return fmt.Errorf("failed to render invite email: %w", err)
	}

	port, err := strconv.Atoi(config.AppConfig.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.AppConfig.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("You've been added to %s", organization))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		port,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)
	return d.DialAndSend(m)
}
