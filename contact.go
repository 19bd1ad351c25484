package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/gomail.v2"
)

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string `form:"fullName" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email,max=320"`
	Message string `form:"message" binding:"required,max=5000"`
}

type Mailer interface {
	SendContact(msg ContactMessage) error
}

// MailService delivers contact messages over SMTP.
type MailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
	policy *bluemonday.Policy
}

func NewMailService(cfg SMTPConfig) *MailService {
	return &MailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.User,
		to:     cfg.To,
		policy: bluemonday.StrictPolicy(),
	}
}

func (m *MailService) SendContact(msg ContactMessage) error {
	if m.dialer.Username == "" || m.dialer.Password == "" {
		return errSMTPNotConfigured
	}
	message := m.compose(msg)
	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}

// compose builds the outgoing mail. Submitted fields are stripped of markup
// before they reach the message.
func (m *MailService) compose(msg ContactMessage) *gomail.Message {
	name := m.clean(msg.Name)
	email := m.clean(msg.Email)

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", m.to)
	message.SetHeader("Reply-To", email)
	message.SetHeader("Subject", "Portfolio Contact: "+name)
	message.SetBody("text/plain", fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, m.clean(msg.Message)))
	return message
}

func (m *MailService) clean(s string) string {
	s = m.policy.Sanitize(s)
	// bluemonday escapes what it keeps; the mail body is plain text.
	s = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'").Replace(s)
	return strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
}

func (s *server) setupContactRoutes(r *gin.Engine) {
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":   "Contact Me",
			"contact": s.content.Contact,
		})
	})

	r.POST("/contact", func(c *gin.Context) {
		var msg ContactMessage
		if err := c.ShouldBind(&msg); err != nil {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please fill in your name, a valid email address and a message.",
			})
			return
		}

		if err := s.mailer.SendContact(msg); err != nil {
			log.Printf("Error sending contact email: %v", err)
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		log.Printf("Contact email sent for %s", hashIP(c.ClientIP(), s.salt))
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}
