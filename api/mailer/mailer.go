// Package mailer renders and delivers account emails.
package mailer

import (
	"context"
	"fmt"
	"net/http"

	"Yatube/api/models"

	"github.com/matcornic/hermes/v2"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGrid(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Yatube", from),
	}
}

func (s *SendGridSender) Send(_ context.Context, msg Message) error {
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)
	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email not delivered, no mail provider configured")
	return nil
}

type Mailer struct {
	sender Sender
	brand  hermes.Hermes
}

func New(sender Sender, siteURL string) *Mailer {
	return &Mailer{
		sender: sender,
		brand: hermes.Hermes{
			Product: hermes.Product{
				Name:      "Yatube",
				Link:      siteURL,
				Copyright: "Yatube",
			},
		},
	}
}

// WelcomeEmail renders the message sent after signup.
func (m *Mailer) WelcomeEmail(user *models.User) (Message, error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name: user.DisplayName(),
			Intros: []string{
				"Welcome to Yatube! Your account " + user.Username + " is ready.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Write your first post:",
					Button: hermes.Button{
						Text: "New post",
						Link: m.brand.Product.Link + "/new/",
					},
				},
			},
			Outros: []string{
				"Follow authors you like to build your personal feed.",
			},
		},
	}

	html, err := m.brand.GenerateHTML(email)
	if err != nil {
		return Message{}, fmt.Errorf("render welcome html: %w", err)
	}
	text, err := m.brand.GeneratePlainText(email)
	if err != nil {
		return Message{}, fmt.Errorf("render welcome text: %w", err)
	}
	return Message{
		To:      user.Email,
		ToName:  user.DisplayName(),
		Subject: "Welcome to Yatube",
		HTML:    html,
		Text:    text,
	}, nil
}

func (m *Mailer) SendWelcome(ctx context.Context, user *models.User) error {
	msg, err := m.WelcomeEmail(user)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}
