package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from, templateDir string) *EmailSender {
	if templateDir == "" {
		templateDir = "templates"
	}
	return &EmailSender{
		Host:        host,
		Port:        port,
		User:        user,
		Password:    password,
		From:        from,
		TemplateDir: templateDir,
	}
}

// SendQuote renders the quote template and delivers it to the contact.
func (s *EmailSender) SendQuote(to string, data QuoteEmailData) error {
	tmplPath := filepath.Join(s.TemplateDir, "quote.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("parsing quote template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering quote template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your insurance quote, %s", data.Name))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending quote email: %w", err)
	}
	return nil
}
