package helper

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphRecorder captures the message types posted to the fake Cloud API and
// lets a test reject interactive payloads.
type graphRecorder struct {
	mu               sync.Mutex
	types            []string
	failInteractives bool
}

func (g *graphRecorder) handler(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)

	msgType, _ := payload["type"].(string)
	g.mu.Lock()
	g.types = append(g.types, msgType)
	g.mu.Unlock()

	if g.failInteractives && msgType == "interactive" {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func newTestWhatsAppClient(rec *graphRecorder) (*WhatsAppClient, *httptest.Server) {
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	client := &WhatsAppClient{
		baseURL:       srv.URL,
		phoneNumberId: "12345",
		token:         "test-token",
		http:          srv.Client(),
	}
	return client, srv
}

func TestSendButtonsInteractivePayload(t *testing.T) {
	rec := &graphRecorder{}
	client, srv := newTestWhatsAppClient(rec)
	defer srv.Close()

	err := client.SendButtons("+923001234567", "Add more items?", []string{"Yes, add more", "No, checkout"})
	require.NoError(t, err)
	assert.Equal(t, []string{"interactive"}, rec.types)
}

func TestSendButtonsFallsBackToTextOnRejection(t *testing.T) {
	rec := &graphRecorder{failInteractives: true}
	client, srv := newTestWhatsAppClient(rec)
	defer srv.Close()

	err := client.SendButtons("+923001234567", "Add more items?", []string{"Yes, add more", "No, checkout"})
	require.NoError(t, err)
	assert.Equal(t, []string{"interactive", "text"}, rec.types)
}

func TestSendButtonsTooManyGoesStraightToText(t *testing.T) {
	rec := &graphRecorder{}
	client, srv := newTestWhatsAppClient(rec)
	defer srv.Close()

	err := client.SendButtons("+923001234567", "Pick one:", []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, rec.types)

	err = client.SendButtons("+923001234567", "Pick one:", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"text", "text"}, rec.types)
}
