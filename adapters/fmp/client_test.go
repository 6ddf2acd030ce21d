package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goincome/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleBody = `[
  {"date":"2023-09-30","symbol":"AAPL","revenue":383285000000,"netIncome":96995000000,
   "grossProfit":169148000000,"eps":6.16,"operatingIncome":114301000000,"calendarYear":"2023"},
  {"date":"2022-09-24","symbol":"AAPL","revenue":394328000000,"netIncome":99803000000,
   "grossProfit":170782000000,"eps":6.15,"operatingIncome":null}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL + "/api/v3/",
		Symbol:  "AAPL",
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, nil)
}

func TestFetchStatements(t *testing.T) {
	var gotPath, gotPeriod, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPeriod = r.URL.Query().Get("period")
		gotKey = r.URL.Query().Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(appleBody))
	})

	records, err := client.FetchStatements(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/income-statement/AAPL", gotPath)
	assert.Equal(t, "annual", gotPeriod)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, records, 2)
	assert.Equal(t, "2023-09-30", records[0].Date)
	assert.Equal(t, 383285000000.0, *records[0].Revenue)
	assert.Equal(t, 6.16, *records[0].EPS)
	assert.Nil(t, records[1].OperatingIncome)
}

func TestFetchStatementsEmptyArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	records, err := client.FetchStatements(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchStatementsFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"api error envelope", http.StatusOK, `{"Error Message":"Invalid API KEY."}`, "api error: Invalid API KEY."},
		{"server error", http.StatusInternalServerError, `oops`, "status 500: oops"},
		{"html page", http.StatusOK, `<html>maintenance</html>`, "not valid JSON"},
		{"object without error", http.StatusOK, `{"data":[]}`, "expected a JSON array"},
		{"scalar", http.StatusOK, `42`, "expected a JSON array"},
		{"wrong field types", http.StatusOK, `[{"date":"2023-01-01","revenue":"lots"}]`, "failed to decode statements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.FetchStatements(context.Background())
			require.Error(t, err)
			assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFetchStatementsCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(appleBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchStatements(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestSnippetTruncates(t *testing.T) {
	long := make([]byte, maxSnippet*2)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, snippet(long), maxSnippet+3)
}

func TestFetchStatementsBadBaseURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://[::1", Symbol: "AAPL", APIKey: "k", Timeout: time.Second}, nil)

	_, err := client.FetchStatements(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "failed to build request URL for AAPL")
}
