package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jobpopapp/backend/internal/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func newTestService(rdb *redis.Client, apiURL string) *Service {
	return &Service{
		redis:    rdb,
		apiURL:   apiURL,
		username: "jobpop",
		password: "secret",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("sms", `.*`).SetVal(1)

	svc := newTestService(db, "http://sms.test")

	err := svc.Send(ctx, "+256700000000", "Your subscription is active")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("sms", `.*`).SetErr(assert.AnError)

	svc := newTestService(db, "http://sms.test")

	err := svc.Send(ctx, "+256700000000", "Your subscription is active")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("sms").SetVal(3)

	svc := newTestService(db, "http://sms.test")

	length := svc.QueueLength(ctx)
	assert.Equal(t, int64(3), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendNow(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	db, _ := redismock.NewClientMock()
	svc := newTestService(db, srv.URL)

	err := svc.sendNow(context.Background(), Message{
		Number: "+256700000000",
		Text:   "hello",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"jobpop"}, gotQuery["username"])
	assert.Equal(t, []string{"hello"}, gotQuery["message"])
	assert.Equal(t, []string{"+256700000000"}, gotQuery["number"])
	assert.Equal(t, []string{"jobpop"}, gotQuery["sender"])
}

func TestSendNow_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient credit", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	db, _ := redismock.NewClientMock()
	svc := newTestService(db, srv.URL)

	err := svc.sendNow(context.Background(), Message{Number: "+256700000000", Text: "hello"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient credit")
}
