package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"masingacdf_backend/internals/configs"
)

// SMSService talks to the Africa's Talking bulk messaging REST API.
type SMSService struct {
	cfg    configs.SMSConfig
	client *http.Client
}

func NewSMSService(cfg configs.SMSConfig) *SMSService {
	return &SMSService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *SMSService) Enabled() bool {
	return s.cfg.Enabled()
}

// FormatPhoneNumber normalizes Kenyan numbers to E.164 (+254...).
// Accepts 07XX/01XX local form, 254-prefixed, or already-formatted
// +254 input.
func FormatPhoneNumber(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")

	switch {
	case strings.HasPrefix(p, "+254"):
		return p
	case strings.HasPrefix(p, "254"):
		return "+" + p
	case strings.HasPrefix(p, "0") && len(p) == 10:
		return "+254" + p[1:]
	default:
		return p
	}
}

type atRecipient struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	MessageID  string `json:"messageId"`
	Cost       string `json:"cost"`
}

type atResponse struct {
	SMSMessageData struct {
		Message    string        `json:"Message"`
		Recipients []atRecipient `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SendSMS delivers one message to one recipient.
func (s *SMSService) SendSMS(phone, message string) error {
	if !s.cfg.Enabled() {
		log.Printf("[WARN] SMS not configured, skipping SMS to %s", phone)
		return nil
	}

	form := url.Values{}
	form.Set("username", s.cfg.Username)
	form.Set("to", FormatPhoneNumber(phone))
	form.Set("message", message)
	if s.cfg.SenderID != "" {
		form.Set("from", s.cfg.SenderID)
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.BaseURL+"/version1/messaging", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send SMS to %s: %w", phone, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed atResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, r := range parsed.SMSMessageData.Recipients {
			if r.StatusCode >= 400 {
				return fmt.Errorf("SMS to %s rejected: %s", r.Number, r.Status)
			}
		}
	}

	log.Printf("✅ SMS sent to %s", FormatPhoneNumber(phone))
	return nil
}

type BulkSMSResult struct {
	Phone string `json:"phone"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// SendBulk sends the same message to many recipients, one call per
// recipient so a bad number does not sink the batch.
func (s *SMSService) SendBulk(phones []string, message string) []BulkSMSResult {
	results := make([]BulkSMSResult, 0, len(phones))
	for _, phone := range phones {
		res := BulkSMSResult{Phone: FormatPhoneNumber(phone)}
		if err := s.SendSMS(phone, message); err != nil {
			res.Error = err.Error()
		} else {
			res.Sent = true
		}
		results = append(results, res)
	}
	return results
}
