package reservations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"villapik/mailer"
	"villapik/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return "", f.err
	}
	return "msg-123", nil
}

func stubCollaborators(t *testing.T, sender *fakeSender, name string, found bool) {
	t.Helper()
	origMail, origResolve, origSettings := Mail, resolveName, fetchSettings
	Mail = sender
	resolveName = func(_ context.Context, id string) (string, bool) {
		return name, found
	}
	fetchSettings = func(_ context.Context) models.SiteSettings {
		return models.SiteSettings{
			WebName: "Villa Pik",
			Address: "Phuket, Thailand",
			Email:   "pikpik@villapik.com",
			Phone:   "+66 123 456 789",
		}
	}
	t.Cleanup(func() {
		Mail, resolveName, fetchSettings = origMail, origResolve, origSettings
	})
}

func TestSubmitReservationSendsEmail(t *testing.T) {
	sender := &fakeSender{}
	stubCollaborators(t, sender, "The Serenity Villa", true)

	body, _ := json.Marshal(validReservation())
	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	SubmitReservation(rr, req, nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "msg-123", resp["id"])

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "Villa Pik", msg.FromName)
	assert.Equal(t, "pikpik@villapik.com", msg.ToEmail)
	assert.Equal(t, "jane@example.com", msg.ReplyTo)
	assert.Equal(t, "New Reservation Request from Jane", msg.Subject)
	assert.Contains(t, msg.Text, "The Serenity Villa")
	assert.Contains(t, msg.HTML, "The Serenity Villa")
}

func TestSubmitReservationFallsBackToRawID(t *testing.T) {
	sender := &fakeSender{}
	stubCollaborators(t, sender, "", false)

	body, _ := json.Marshal(validReservation())
	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	SubmitReservation(rr, req, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Residence: villa-1")
}

func TestSubmitReservationRejectsInvalidPayload(t *testing.T) {
	sender := &fakeSender{}
	stubCollaborators(t, sender, "The Serenity Villa", true)

	res := validReservation()
	res.Email = "not-an-email"
	body, _ := json.Marshal(res)
	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	SubmitReservation(rr, req, nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, sender.sent)
}

func TestSubmitReservationProviderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("sendgrid down")}
	stubCollaborators(t, sender, "The Serenity Villa", true)

	body, _ := json.Marshal(validReservation())
	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	SubmitReservation(rr, req, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestSubmitReservationEscapesHTML(t *testing.T) {
	sender := &fakeSender{}
	stubCollaborators(t, sender, "The Serenity Villa", true)

	res := validReservation()
	res.Message = `<script>alert("x")</script>`
	body, _ := json.Marshal(res)
	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	SubmitReservation(rr, req, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].HTML, "<script>")
	assert.Contains(t, sender.sent[0].HTML, "&lt;script&gt;")
}

func TestSubmitContact(t *testing.T) {
	sender := &fakeSender{}
	stubCollaborators(t, sender, "", false)

	body := strings.NewReader(`{"name":"Bob","email":"bob@example.com","message":"Hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", body)
	rr := httptest.NewRecorder()

	SubmitContact(rr, req, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "New contact form from Bob", sender.sent[0].Subject)
	assert.Equal(t, "bob@example.com", sender.sent[0].ReplyTo)
}

func TestSubmitContactRequiresEmailAndMessage(t *testing.T) {
	sender := &fakeSender{}
	stubCollaborators(t, sender, "", false)

	for _, body := range []string{
		`{"name":"Bob","message":"Hi"}`,
		`{"name":"Bob","email":"bob@example.com"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		rr := httptest.NewRecorder()

		SubmitContact(rr, req, nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
	assert.Empty(t, sender.sent)
}
