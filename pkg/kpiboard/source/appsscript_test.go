package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

func TestAppsScriptFetch(t *testing.T) {
	var gotQuery, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("_cacheBust")
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, validPayload)
	}))
	defer srv.Close()

	a := NewAppsScript(srv.URL+"/exec?v=2", srv.Client())
	a.Clock = func() time.Time { return time.UnixMilli(1714737600000) }

	data, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Indicadores", data.Title)
	require.Equal(t, "1714737600000", gotQuery)
	require.Equal(t, "no-store", gotCache)
}

func TestAppsScriptFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"upstream error with status", http.StatusInternalServerError, `{"error": "quota exceeded"}`, ErrUpstream},
		{"upstream error on success", http.StatusOK, `{"error": "Sheet 'Registros' not found"}`, ErrUpstream},
		{"schema mismatch", http.StatusOK, `{"title": "x"}`, ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewAppsScript(srv.URL, srv.Client()).Fetch(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAppsScriptFetchBadStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAppsScript(srv.URL, srv.Client()).Fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestAppsScriptSubmit(t *testing.T) {
	var got models.FormEntry
	var method, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"status": "success", "message": "ok"}`)
	}))
	defer srv.Close()

	entry := models.FormEntry{
		Date:        models.NewDate(2024, time.May, 3),
		SectorID:    "vendas",
		IndicatorID: "tg",
		Value:       models.NumberValue(10.5),
	}
	require.NoError(t, NewAppsScript(srv.URL, srv.Client()).Submit(context.Background(), entry))
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "text/plain;charset=utf-8", contentType)
	require.Equal(t, "tg", got.IndicatorID)
	require.True(t, got.Date.Equal(entry.Date))
	require.Equal(t, models.NumberValue(10.5), got.Value)
}

func TestAppsScriptSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status": "error", "message": "DUPLICATE_ENTRY: Registro já existe para 2024-05-03"}`)
	}))
	defer srv.Close()

	err := NewAppsScript(srv.URL, srv.Client()).Submit(context.Background(), models.FormEntry{SectorID: "vendas"})

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	require.True(t, werr.IsDuplicate())
	require.Equal(t, "Registro já existe para 2024-05-03", UnwrapDuplicate(werr.Message))
}

func TestAppsScriptSubmitHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "internal error")
	}))
	defer srv.Close()

	err := NewAppsScript(srv.URL, srv.Client()).Submit(context.Background(), models.FormEntry{})

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	require.Equal(t, http.StatusInternalServerError, werr.StatusCode)
	require.False(t, werr.IsDuplicate())
}

func TestUnwrapDuplicate(t *testing.T) {
	require.Equal(t, "already there", UnwrapDuplicate("DUPLICATE_ENTRY:  already there "))
	require.Equal(t, "plain failure", UnwrapDuplicate("plain failure"))
}
