// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDocuments(toEmail, resume, coverLetter string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendDocuments mails the finished resume and cover letter to the user.
func (s *emailService) SendDocuments(toEmail, resume, coverLetter string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your resume and cover letter")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your documents are ready!</h2>
			<h3>Resume</h3>
			<pre style="white-space: pre-wrap; font-family: inherit;">%s</pre>
			<h3>Cover Letter</h3>
			<pre style="white-space: pre-wrap; font-family: inherit;">%s</pre>
			<p>Good luck with your application!</p>
		</div>
	`, html.EscapeString(resume), html.EscapeString(coverLetter))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send documents to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Documents sent to %s\n", toEmail)
	return nil
}
