package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const mockEmailTTL = 5 * time.Minute

// MockEmailKey is where RedisSender stores the last message for a recipient and template.
func MockEmailKey(to, templateID string) string {
	return fmt.Sprintf("mockemail:%s:%s", to, templateID)
}

// RedisSender stores messages in Redis instead of sending them, so end-to-end runs can
// read them back through the service API.
type RedisSender struct {
	client *redis.Client
}

func NewRedisSender(client *redis.Client) Sender {
	return &RedisSender{client: client}
}

func (s *RedisSender) Send(ctx context.Context, msg *Message) error {
	// The first recipient names the key.
	primaryTo := ""
	if len(msg.To) > 0 {
		primaryTo = msg.To[0]
	}

	emailData := map[string]interface{}{
		"to":         strings.Join(msg.To, ", "),
		"from":       msg.From,
		"subject":    msg.Subject,
		"body":       msg.Body,
		"templateId": msg.TemplateID,
		"sent_at":    time.Now().UTC().Format(time.RFC3339Nano),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	key := MockEmailKey(primaryTo, msg.TemplateID)
	if err := s.client.Set(ctx, key, jsonData, mockEmailTTL).Err(); err != nil {
		return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
	}

	log.Printf("Mock email stored in Redis key '%s' (TTL: %v, Subject: %s)", key, mockEmailTTL, msg.Subject)
	return nil
}
