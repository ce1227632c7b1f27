package bookingform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"coastline/villas/internal/models"
)

const submitPath = "/api/submit-booking"

// Submitter sends one booking submission and returns the new booking id.
type Submitter interface {
	Submit(ctx context.Context, sub *models.BookingSubmission) (string, error)
}

// ServerError is a non-2xx answer from the booking endpoint. Message is the server's
// own text, shown to the guest as is.
type ServerError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("booking endpoint returned %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("booking endpoint returned %d: %s", e.StatusCode, e.Message)
}

type submitResponse struct {
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
	Error     string `json:"error"`
}

// HTTPSubmitter posts submissions to a running server. It carries the captcha headers:
// a pending challenge is sent once as X-C-V, and any X-C-T token the server hands back
// is replayed on later submissions.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client

	mu          sync.Mutex
	challenge   string
	humanToken  string
	fingerprint string
}

// NewHTTPSubmitter creates a submitter for baseURL. A nil client means
// http.DefaultClient, which has no timeout.
func NewHTTPSubmitter(baseURL string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// SetChallenge attaches a solved Turnstile challenge to the next submission.
func (s *HTTPSubmitter) SetChallenge(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenge = token
}

// SetFingerprint sets the X-BFP browser fingerprint sent with every submission.
func (s *HTTPSubmitter) SetFingerprint(fp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprint = fp
}

func (s *HTTPSubmitter) Submit(ctx context.Context, sub *models.BookingSubmission) (string, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("failed to encode booking submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	s.mu.Lock()
	if s.humanToken != "" {
		req.Header.Set("X-C-T", s.humanToken)
	}
	if s.challenge != "" {
		req.Header.Set("X-C-V", s.challenge)
		s.challenge = ""
	}
	if s.fingerprint != "" {
		req.Header.Set("X-BFP", s.fingerprint)
	}
	s.mu.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send booking request: %w", err)
	}
	defer resp.Body.Close()

	if token := resp.Header.Get("X-C-T"); token != "" {
		s.mu.Lock()
		s.humanToken = token
		s.mu.Unlock()
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read booking response: %w", err)
	}

	var out submitResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServerError{StatusCode: resp.StatusCode, Message: out.Message, Detail: out.Error}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode booking response: %w", decodeErr)
	}
	if out.BookingID == "" {
		return "", fmt.Errorf("booking response carried no bookingId")
	}
	return out.BookingID, nil
}
