package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mti-it/onboarding-service/internal/settings"
)

func TestRecipient_Policies(t *testing.T) {
	hire := NewClient(settings.WhatsAppSettings{RecipientPolicy: "hire", TestNumber: "+620000"})
	assert.Equal(t, "+628111", hire.Recipient("+628111"))

	test := NewClient(settings.WhatsAppSettings{RecipientPolicy: "test", TestNumber: "+620000"})
	assert.Equal(t, "+620000", test.Recipient("+628111"))

	// Test policy without a number falls back to the hire's own.
	unset := NewClient(settings.WhatsAppSettings{RecipientPolicy: "test"})
	assert.Equal(t, "+628111", unset.Recipient("+628111"))
}

func TestSend_PostsPayloadWithBearerToken(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(settings.WhatsAppSettings{
		Enabled: true,
		APIURL:  server.URL,
		Token:   "tok",
	})

	err := client.Send(context.Background(), "+628111", "Welcome Jane!")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, map[string]string{"to": "+628111", "message": "Welcome Jane!"}, gotBody)
}

func TestSend_RejectedStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(settings.WhatsAppSettings{Enabled: true, APIURL: server.URL})
	err := client.Send(context.Background(), "+628111", "hello")
	assert.ErrorContains(t, err, "502")
}

func TestSend_NotConfigured(t *testing.T) {
	client := NewClient(settings.WhatsAppSettings{})
	assert.ErrorIs(t, client.Send(context.Background(), "+628111", "hello"), ErrNotConfigured)

	disabled := NewClient(settings.WhatsAppSettings{Enabled: true})
	assert.ErrorIs(t, disabled.Send(context.Background(), "+628111", "hello"), ErrNotConfigured)
}

func TestSend_EmptyRecipientRejected(t *testing.T) {
	client := NewClient(settings.WhatsAppSettings{Enabled: true, APIURL: "http://localhost:1"})
	assert.Error(t, client.Send(context.Background(), "", "hello"))
}
