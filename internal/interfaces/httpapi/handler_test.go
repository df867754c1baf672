package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/domain/ingestionlog"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-token"

type stubIngestor struct {
	calls   []usecase.FetchWindow
	summary usecase.RunSummary
	err     error
}

func (s *stubIngestor) Ingest(_ context.Context, window usecase.FetchWindow) (usecase.RunSummary, error) {
	s.calls = append(s.calls, window)
	return s.summary, s.err
}

func newTestRouter(ingestor FixtureIngestor) http.Handler {
	return NewRouter(NewHandler(ingestor, logging.NewNop()), logging.NewNop(), testJobToken)
}

func postIngest(t *testing.T, router http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest-fixtures", strings.NewReader(body))
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubIngestor{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestRunIngestFixturesJob_RequiresToken(t *testing.T) {
	ingestor := &stubIngestor{}
	router := newTestRouter(ingestor)

	rec := postIngest(t, router, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postIngest(t, router, "wrong", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, ingestor.calls)
}

func TestRunIngestFixturesJob_TokenNotConfigured(t *testing.T) {
	router := NewRouter(NewHandler(&stubIngestor{}, logging.NewNop()), logging.NewNop(), "")

	rec := postIngest(t, router, "anything", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunIngestFixturesJob_DefaultWindow(t *testing.T) {
	ingestor := &stubIngestor{summary: usecase.RunSummary{
		RunID:     "run_1",
		Status:    ingestionlog.StatusSuccess,
		Received:  2,
		Processed: 2,
		Inserted:  2,
	}}
	router := newTestRouter(ingestor)

	rec := postIngest(t, router, testJobToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ingestor.calls, 1)
	assert.True(t, ingestor.calls[0].From.IsZero())

	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "run_1", data["run_id"])
	assert.Equal(t, "success", data["status"])
	assert.EqualValues(t, 2, data["inserted"])
}

func TestRunIngestFixturesJob_ExplicitWindow(t *testing.T) {
	ingestor := &stubIngestor{summary: usecase.RunSummary{RunID: "run_2", Status: ingestionlog.StatusSuccess}}
	router := newTestRouter(ingestor)

	rec := postIngest(t, router, testJobToken, `{"date_from":"2024-08-01","date_to":"2024-08-20"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ingestor.calls, 1)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), ingestor.calls[0].From)
	assert.Equal(t, time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC), ingestor.calls[0].To)
}

func TestRunIngestFixturesJob_InvalidPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"date_from":`},
		{name: "unknown field", body: `{"league":"PL"}`},
		{name: "bad date", body: `{"date_from":"01/08/2024","date_to":"2024-08-20"}`},
		{name: "only one bound", body: `{"date_from":"2024-08-01"}`},
		{name: "reversed window", body: `{"date_from":"2024-08-20","date_to":"2024-08-01"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ingestor := &stubIngestor{}
			rec := postIngest(t, newTestRouter(ingestor), testJobToken, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, ingestor.calls)
		})
	}
}

func TestRunIngestFixturesJob_RunErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "run in progress", err: usecase.ErrRunInProgress, want: http.StatusConflict},
		{name: "no data", err: fmt.Errorf("fetch matches: %w", usecase.ErrNoData), want: http.StatusBadGateway},
		{name: "store down", err: fmt.Errorf("process: %w", usecase.ErrStoreUnavailable), want: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ingestor := &stubIngestor{
				summary: usecase.RunSummary{RunID: "run_3", Status: ingestionlog.StatusFailure},
				err:     tc.err,
			}
			rec := postIngest(t, newTestRouter(ingestor), testJobToken, "")
			assert.Equal(t, tc.want, rec.Code)

			errorObj, ok := decodeEnvelope(t, rec)["error"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, errorObj["message"], tc.err.Error())
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
