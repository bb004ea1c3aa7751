package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/cashflow-forecaster/internal/config"
	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// LowBalanceAlert describes the upcoming trouble found in a user's projection
type LowBalanceAlert struct {
	FirstOverdraft    models.Date
	FirstBufferBreach models.Date
	LowestBalance     models.Money
	LowestBalanceDay  models.Date
	SafetyBuffer      models.Money
	Currency          string
}

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendLowBalanceAlert warns a user that their balance is projected to drop too low
func (s *Sender) SendLowBalanceAlert(to, username string, alert LowBalanceAlert) error {
	e := buildLowBalanceAlert(s.cfg.SenderEmail, to, username, alert)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func buildLowBalanceAlert(from, to, username string, alert LowBalanceAlert) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	if !alert.FirstOverdraft.IsZero() {
		e.Subject = "Heads up: your balance is projected to go negative"
	} else {
		e.Subject = "Heads up: your balance is projected to dip below your safety buffer"
	}

	// Format email body
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", username)
	if !alert.FirstOverdraft.IsZero() {
		fmt.Fprintf(&body, "Based on your upcoming bills and income, your accounts are projected to be overdrawn on %s.\n",
			alert.FirstOverdraft)
	}
	if !alert.FirstBufferBreach.IsZero() {
		fmt.Fprintf(&body, "Your balance is projected to fall below your %s safety buffer on %s.\n",
			alert.SafetyBuffer.Format(alert.Currency), alert.FirstBufferBreach)
	}
	fmt.Fprintf(&body, "The lowest projected balance is %s on %s.\n",
		alert.LowestBalance.Format(alert.Currency), alert.LowestBalanceDay)
	body.WriteString("Consider moving a bill, chasing an outstanding invoice, or transferring from savings.\n")
	body.WriteString("\nBest regards,\nCash Flow Forecaster")
	e.Text = []byte(body.String())
	return e
}
