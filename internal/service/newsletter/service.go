package newsletter

import (
	"context"
	"fmt"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// DeliveryReport summarizes a fan-out.
type DeliveryReport struct {
	Delivered int
	Failed    int
}

// Service publishes newsletter issues.
type Service struct {
	repo      Repository
	sender    email.Sender
	templates *email.TemplateService
}

// NewService creates a newsletter service.
func NewService(repo Repository, sender email.Sender, templates *email.TemplateService) *Service {
	return &Service{repo: repo, sender: sender, templates: templates}
}

// Publish sends an issue to every confirmed subscriber. Failing to load the
// audience aborts the whole publication; a failed send to one recipient is
// logged and the fan-out moves on. Issue content may use Liquid variables
// ({{ name }}, {{ email }}) for per-recipient personalization.
func (s *Service) Publish(ctx context.Context, issue domain.Issue) (DeliveryReport, error) {
	recipients, err := s.repo.ConfirmedRecipients(ctx)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("loading confirmed subscribers: %w", err)
	}

	var report DeliveryReport
	for _, r := range recipients {
		tctx := map[string]interface{}{
			"name":  r.Name,
			"email": r.Email,
		}
		msg := email.Email{
			To:      r.Email,
			Subject: issue.Title,
			HTML:    s.templates.Render("", issue.HTMLContent, tctx),
			Text:    s.templates.Render("", issue.TextContent, tctx),
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			report.Failed++
			logger.Warn("newsletter delivery failed",
				"recipient", r.Email,
				"title", issue.Title,
				"error", err.Error())
			continue
		}
		report.Delivered++
	}

	logger.Info("newsletter published",
		"title", issue.Title,
		"delivered", report.Delivered,
		"failed", report.Failed)
	return report, nil
}
