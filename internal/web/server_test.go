package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeEngine struct {
	lastSender string
	lastText   string
	replies    []string
	err        error
}

func (f *fakeEngine) HandleMessage(_ context.Context, sender, text string) ([]string, error) {
	f.lastSender = sender
	f.lastText = text
	return f.replies, f.err
}

func postForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWebhookRepliesWithTwiML(t *testing.T) {
	fe := &fakeEngine{replies: []string{"Logged bottle: 120 ml.", "Nice! Three entries already today - you're on top of this."}}
	router := NewServer(fe).Router()

	w := postForm(t, router, url.Values{
		"From": {"whatsapp:+972501234567"},
		"Body": {"bottle 120"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/xml", w.Header().Get("Content-Type"))
	assert.Equal(t, "whatsapp:+972501234567", fe.lastSender)
	assert.Equal(t, "bottle 120", fe.lastText)

	// every reply is its own outbound message
	body := w.Body.String()
	assert.Contains(t, body, "<Message>Logged bottle: 120 ml.</Message>")
	assert.Contains(t, body, "<Message>Nice! Three entries already today - you're on top of this.</Message>")
	assert.Equal(t, 2, strings.Count(body, "<Message>"))
}

func TestWebhookEscapesMarkup(t *testing.T) {
	fe := &fakeEngine{replies: []string{"1 < 2 & 3 > 2"}}
	router := NewServer(fe).Router()

	w := postForm(t, router, url.Values{"From": {"x"}, "Body": {"y"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1 &lt; 2 &amp; 3 &gt; 2")
}

func TestWebhookRequiresFrom(t *testing.T) {
	fe := &fakeEngine{}
	router := NewServer(fe).Router()

	w := postForm(t, router, url.Values{"Body": {"hello"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookEngineFailureStillAnswers(t *testing.T) {
	fe := &fakeEngine{err: errors.New("store unavailable")}
	router := NewServer(fe).Router()

	w := postForm(t, router, url.Values{"From": {"x"}, "Body": {"bottle 50"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestHealthz(t *testing.T) {
	router := NewServer(&fakeEngine{}).Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
