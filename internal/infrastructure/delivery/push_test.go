package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

func TestWebhookPushSenderPostsPayload(t *testing.T) {
	var got pushPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewWebhookPushSender(srv.URL, "secret", logging.NewNop())
	require.NoError(t, sender.SendPush(context.Background(), "tok-1", "Goal", "1-0"))

	require.Equal(t, "tok-1", got.Token)
	require.Equal(t, "Goal", got.Title)
	require.Equal(t, "1-0", got.Body)
	require.Equal(t, "Bearer secret", auth)
}

func TestWebhookPushSenderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewWebhookPushSender(srv.URL, "", logging.NewNop())
	require.Error(t, sender.SendPush(context.Background(), "tok-1", "Goal", "1-0"))
}

func TestWebhookPushSenderRequiresToken(t *testing.T) {
	sender := NewWebhookPushSender("http://localhost", "", logging.NewNop())
	require.Error(t, sender.SendPush(context.Background(), "", "Goal", "1-0"))
}

func TestLogSendersNeverFail(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, NewLogEmailSender(logging.NewNop()).SendEmail(ctx, "a@example.com", "subject", "body"))
	require.NoError(t, NewLogPushSender(logging.NewNop()).SendPush(ctx, "tok-1", "title", "body"))
}
