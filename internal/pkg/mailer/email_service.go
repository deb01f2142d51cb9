package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendFraudAlert(adId string, riskLevel string, riskScore float64, reasons []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	alertEmail  string
}

func NewEmailService(host string, port int, username, password, senderEmail, alertEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		alertEmail:  alertEmail,
	}
}

func (s *emailService) SendFraudAlert(adId string, riskLevel string, riskScore float64, reasons []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.alertEmail)
	m.SetHeader("Subject", fmt.Sprintf("Fraud alert: listing %s flagged %s", adId, riskLevel))

	reasonItems := make([]string, len(reasons))
	for i, r := range reasons {
		reasonItems[i] = fmt.Sprintf("<li>%s</li>", r)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Listing flagged for review</h2>
			<p>Listing <strong>%s</strong> was scored <strong>%.2f</strong> (%s risk).</p>
			<ul>%s</ul>
			<p>The listing is in the moderation queue pending manual review.</p>
		</div>
	`, adId, riskScore, riskLevel, strings.Join(reasonItems, ""))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send fraud alert for %s: %v\n", adId, err)
		return err
	}

	fmt.Printf("[MAILER] Fraud alert sent for listing %s\n", adId)
	return nil
}
