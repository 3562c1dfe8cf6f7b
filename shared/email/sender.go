package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"farm-assist/internal/models"
	"farm-assist/shared/config"
)

// Sender delivers the daily advisory over SMTP.
type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

const advisoryTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Daily Selling Advisory</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 700px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4CAF50; color: white; padding: 16px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        .advice { background-color: #E8F5E8; padding: 15px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #4CAF50; }
        .buyer { background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Daily Selling Advisory</h1>
        <p>{{.CreatedAt.Format "Monday, January 2, 2006"}}</p>
    </div>

    <div class="advice">
        <p>{{.Recommendation}}</p>
    </div>

    {{if .Buyer}}
    <div class="buyer">
        <h3>Suggested Buyer</h3>
        <p><strong>{{.Buyer.Name}}</strong> ({{.Buyer.Region}})</p>
        <p>Crop: {{.Crop}} — around ₱{{printf "%.2f" .AveragePrice}}/kg</p>
    </div>
    {{end}}

    <div class="footer">
        <p>Generated by Farm Assist • Weather data from Open-Meteo</p>
    </div>
</body>
</html>
`

// SendAdvisory emails one selling initiative.
func (s *Sender) SendAdvisory(initiative models.SellingInitiative) error {
	subject := fmt.Sprintf("Selling Advisory - %s", initiative.CreatedAt.Format("Jan 2, 2006"))

	tmpl, err := template.New("advisory").Parse(advisoryTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse advisory template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, initiative); err != nil {
		return fmt.Errorf("failed to render advisory email: %w", err)
	}

	return s.sendViaSMTP(subject, buf.String())
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}
