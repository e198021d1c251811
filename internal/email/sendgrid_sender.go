package email

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"mingus-outlook/internal/domain"
)

const defaultSendGridBaseURL = "https://api.sendgrid.com"

// SendGridSender envia el outlook diario por la API v3 de SendGrid.
type SendGridSender struct {
	client   *resty.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, baseURL, from, fromName string) (*SendGridSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("sendgrid from is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultSendGridBaseURL
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &SendGridSender{client: c, from: from, fromName: fromName}, nil
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func (s *SendGridSender) SendDailyOutlook(ctx context.Context, to Recipient, outlook domain.DailyOutlook) error {
	if err := validateRecipient(to); err != nil {
		return err
	}
	subject, body := composeOutlook(to, outlook)
	req := sendGridRequest{
		Personalizations: []sendGridPersonalization{{
			To: []sendGridAddress{{Email: strings.TrimSpace(to.Email), Name: strings.TrimSpace(to.FirstName)}},
		}},
		From:    sendGridAddress{Email: s.from, Name: s.fromName},
		Subject: subject,
		Content: []sendGridContent{{Type: "text/plain", Value: body}},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/v3/mail/send")
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode() != http.StatusAccepted && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
