package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const unisenderEndpoint = "https://go1.unisender.ru/ru/transactional/api/v1/email/send.json"

// UnisenderSender delivers mail through the Unisender Go transactional API.
type UnisenderSender struct {
	apiKey    string
	fromEmail string
	fromName  string
	client    *http.Client
	logger    *zap.Logger
}

func NewUnisenderSender(apiKey, fromEmail, fromName string, logger *zap.Logger) *UnisenderSender {
	return &UnisenderSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

type unisenderRequest struct {
	Message unisenderMessage `json:"message"`
}

type unisenderMessage struct {
	Recipients []unisenderRecipient `json:"recipients"`
	Subject    string               `json:"subject"`
	FromEmail  string               `json:"from_email"`
	FromName   string               `json:"from_name,omitempty"`
	Body       unisenderBody        `json:"body"`
}

type unisenderRecipient struct {
	Email string `json:"email"`
}

type unisenderBody struct {
	Plaintext string `json:"plaintext"`
}

func (s *UnisenderSender) Send(ctx context.Context, to, subject, body string) error {
	payload := unisenderRequest{
		Message: unisenderMessage{
			Recipients: []unisenderRecipient{{Email: to}},
			Subject:    subject,
			FromEmail:  s.fromEmail,
			FromName:   s.fromName,
			Body:       unisenderBody{Plaintext: body},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, unisenderEndpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.Error("unisender rejected email",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return fmt.Errorf("send email: unisender status %d", resp.StatusCode)
	}

	return nil
}
