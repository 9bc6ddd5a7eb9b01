package services

import (
	"fmt"
	"log"

	"legal_connect_go/config"
	"legal_connect_go/models"
	"legal_connect_go/services/i18n"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail delivers the message through Resend. In test mode the
// message is logged to the console instead of sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode || cfg.ResendAPIKey == "" {
		log.Printf("[EMAIL TEST MODE] To: %v | Subject: %s\n%s", email.To, email.Subject, email.TextBody)
		return nil
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("email: send: %w", err)
	}

	log.Printf("[EMAIL] Sent %s to %v", sent.Id, email.To)
	return nil
}

// SendLawyerVerifiedEmail notifies a lawyer their profile was approved
func SendLawyerVerifiedEmail(cfg *config.Config, profile *models.LawyerProfile, lang string) error {
	if profile.User == nil {
		return fmt.Errorf("email: profile user not loaded")
	}

	subject := i18n.TLang(lang, "email.lawyer_verified.subject", nil)
	body := i18n.TLang(lang, "email.lawyer_verified.body", map[string]interface{}{
		"name": profile.FullName,
	})

	return SendEmail(cfg, &Email{
		To:       []string{profile.User.Email},
		Subject:  subject,
		HTMLBody: fmt.Sprintf("<p>%s</p>", body),
		TextBody: body,
	})
}

// SendLawyerRejectedEmail notifies a lawyer their profile was rejected,
// quoting the admin's reason verbatim.
func SendLawyerRejectedEmail(cfg *config.Config, profile *models.LawyerProfile, reason string, lang string) error {
	if profile.User == nil {
		return fmt.Errorf("email: profile user not loaded")
	}

	subject := i18n.TLang(lang, "email.lawyer_rejected.subject", nil)
	body := i18n.TLang(lang, "email.lawyer_rejected.body", map[string]interface{}{
		"name":   profile.FullName,
		"reason": reason,
	})

	return SendEmail(cfg, &Email{
		To:       []string{profile.User.Email},
		Subject:  subject,
		HTMLBody: fmt.Sprintf("<p>%s</p>", body),
		TextBody: body,
	})
}

// SendCaseStatusEmail notifies the case owner about a status change
func SendCaseStatusEmail(cfg *config.Config, caseRecord *models.Case, oldStatus, newStatus, lang string) error {
	if caseRecord.Owner.Email == "" {
		return fmt.Errorf("email: case owner not loaded")
	}

	subject := i18n.TLang(lang, "email.case_status.subject", map[string]interface{}{
		"title": caseRecord.Title,
	})
	body := i18n.TLang(lang, "email.case_status.body", map[string]interface{}{
		"title": caseRecord.Title,
		"old":   i18n.TLang(lang, "case.status."+oldStatus, nil),
		"new":   i18n.TLang(lang, "case.status."+newStatus, nil),
	})

	return SendEmail(cfg, &Email{
		To:       []string{caseRecord.Owner.Email},
		Subject:  subject,
		HTMLBody: fmt.Sprintf("<p>%s</p>", body),
		TextBody: body,
	})
}
