package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jobpopapp/backend/internal/logger"
	"github.com/jobpopapp/backend/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "sms"
	failedQueueKey = "sms:failed"
	maxTries       = 3
)

type Message struct {
	Number  string    `json:"number"`
	Text    string    `json:"text"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis      *redis.Client
	apiURL     string
	username   string
	password   string
	httpClient *http.Client
}

func New(apiURL, username, password, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		apiURL:   apiURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithClient wires an existing redis client, used by tests.
func NewWithClient(client *redis.Client, apiURL, username, password string) *Service {
	return &Service{
		redis:    client,
		apiURL:   apiURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *Service) Send(ctx context.Context, number, text string) error {
	msg := Message{
		Number:  number,
		Text:    text,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("Failed to marshal SMS: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue SMS to %s: %v", number, err)
		return err
	}

	logger.Infof("SMS queued for %s", number)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("SMS service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("SMS service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		logger.Errorf("Bad SMS data: %v", err)
		return
	}

	msg.Tries++
	logger.Infof("Sending SMS to %s (attempt %d)", msg.Number, msg.Tries)
	if err := s.sendNow(ctx, msg); err != nil {
		logger.Errorf("Failed to send SMS to %s: %v", msg.Number, err)

		if msg.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(msg)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying SMS to %s (attempt %d)", msg.Number, msg.Tries+1)
		} else {
			logger.Errorf("SMS to %s failed after %d attempts", msg.Number, maxTries)
			metrics.RecordSMS("failed")
			s.saveFailed(msg, err)
		}
		return
	}

	metrics.RecordSMS("sent")
	logger.Infof("SMS sent successfully to %s", msg.Number)
}

func (s *Service) sendNow(ctx context.Context, msg Message) error {
	params := url.Values{}
	params.Set("username", s.username)
	params.Set("password", s.password)
	params.Set("message", msg.Text)
	params.Set("number", msg.Number)
	params.Set("sender", s.username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, body)
	}

	return nil
}

func (s *Service) saveFailed(msg Message, err error) {
	failed := map[string]interface{}{
		"message": msg,
		"error":   err.Error(),
		"time":    time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("SMS moved to failed queue: %s", msg.Number)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.SMSQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
