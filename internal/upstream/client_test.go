package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *ReportClientImpl {
	return &ReportClientImpl{BaseURL: baseURL, Timeout: 5 * time.Second, Logger: zap.NewNop()}
}

func TestPostFormSendsFormAndToken(t *testing.T) {
	var gotAuth, gotType, gotPath string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(raw))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"calls":[]}`))
	}))
	defer srv.Close()

	form := url.Values{}
	form.Set("page", "2")
	form.Set("sort_type", "desc")

	body, err := newTestClient(srv.URL).PostForm(context.Background(), "/calls/report", "tok-123", form)
	require.NoError(t, err)

	assert.JSONEq(t, `{"calls":[]}`, string(body))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Contains(t, gotType, "application/x-www-form-urlencoded")
	assert.Equal(t, "/calls/report", gotPath)
	assert.Equal(t, "2", gotForm.Get("page"))
	assert.Equal(t, "desc", gotForm.Get("sort_type"))
}

func TestPostFormServerError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantText string
	}{
		{"message field", http.StatusUnprocessableEntity, `{"message":"Date range too large"}`, KindServer, "Date range too large"},
		{"error field", http.StatusInternalServerError, `{"error":"boom"}`, KindServer, "boom"},
		{"no body", http.StatusBadGateway, ``, KindServer, "Bad Gateway"},
		{"unauthorized", http.StatusUnauthorized, `{}`, KindAuth, "Not authorized"},
		{"forbidden with message", http.StatusForbidden, `{"message":"Account locked"}`, KindAuth, "Account locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).PostForm(context.Background(), "jobs/report", "", url.Values{})
			require.Error(t, err)

			var ue *Error
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.wantKind, ue.Kind)
			assert.Equal(t, tt.status, ue.Status)
			assert.Equal(t, tt.wantText, ue.Text)
		})
	}
}

func TestPostFormConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(addr).PostForm(context.Background(), "jobs/report", "", url.Values{})
	require.Error(t, err)

	ue := Normalize(err)
	assert.Equal(t, KindConnectivity, ue.Kind)
	assert.Equal(t, "Can't connect to server", ue.Text)
}

func TestPostFormCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient("http://127.0.0.1:1").PostForm(ctx, "jobs/report", "", url.Values{})
	assert.Equal(t, KindConnectivity, Normalize(err).Kind)
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	ue := Normalize(errors.New("json: cannot unmarshal"))
	assert.Equal(t, KindUnexpected, ue.Kind)
	assert.Equal(t, "json: cannot unmarshal", ue.Text)

	wrapped := Normalize(&Error{Kind: KindServer, Text: "nope"})
	assert.Equal(t, "nope", wrapped.Error())
}
