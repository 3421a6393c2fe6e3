package sendgridmail

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

func newTestService(api func(rest.Request) (*rest.Response, error)) *service {
	svc := NewService("sg-key", "Course Tools", "noreply@example.edu").(*service)
	svc.api = api
	return svc
}

func TestService_SendMessages(t *testing.T) {
	var reqs []rest.Request
	svc := newTestService(func(req rest.Request) (*rest.Response, error) {
		reqs = append(reqs, req)
		return &rest.Response{StatusCode: http.StatusAccepted}, nil
	})

	err := svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "Prof", Address: "prof@example.edu"}},
			Subject: "rubrics",
			BodyStr: "[summary] added=0 skipped=0 warnings_or_errors=1",
		},
		&core.EmailMessage{Subject: "nobody", BodyStr: "x"},
	)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	req := reqs[0]
	assert.Equal(t, rest.Method(http.MethodPost), req.Method)
	assert.Equal(t, "https://api.sendgrid.com/v3/mail/send", req.BaseURL)
	assert.Equal(t, "Bearer sg-key", req.Headers["Authorization"])

	var body struct {
		From struct {
			Email string `json:"email"`
		} `json:"from"`
		Personalizations []struct {
			Subject string `json:"subject"`
			To      []struct {
				Email string `json:"email"`
			} `json:"to"`
		} `json:"personalizations"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "noreply@example.edu", body.From.Email)
	require.Len(t, body.Personalizations, 1)
	assert.Equal(t, "[Course Tools] rubrics", body.Personalizations[0].Subject)
	assert.Equal(t, "prof@example.edu", body.Personalizations[0].To[0].Email)
	require.Len(t, body.Content, 1)
	assert.Equal(t, "text/plain", body.Content[0].Type)
}

func TestService_SendMessagesFailure(t *testing.T) {
	msg := &core.EmailMessage{To: []mail.Address{{Address: "prof@example.edu"}}, BodyStr: "x"}

	svc := newTestService(func(rest.Request) (*rest.Response, error) {
		return &rest.Response{StatusCode: http.StatusUnauthorized, Body: `{"errors":[]}`}, nil
	})
	err := svc.SendMessages(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	svc = newTestService(func(rest.Request) (*rest.Response, error) {
		return nil, errors.New("dial tcp: timeout")
	})
	err = svc.SendMessages(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial tcp: timeout")
}
