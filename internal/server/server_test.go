package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/internal/testutil"
)

func upload(t *testing.T, parts map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, content := range parts {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func allParts(matches string) map[string]string {
	return map[string]string{
		"mentors": testutil.MentorsCSV,
		"mentees": testutil.MenteesCSV,
		"matches": matches,
	}
}

func do(t *testing.T, s *Server, target string, parts map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := upload(t, parts)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return got
}

func newTestServer(t *testing.T) *Server {
	return New(Config{Logger: testutil.NewTestLogger(t)})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndex_UploadPage(t *testing.T) {
	s := New(Config{WideName: "wide_report", LongName: "long_report", MaxUploadBytes: 1 << 20})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `action="/api/process"`)
	assert.Contains(t, body, `enctype="multipart/form-data"`)
	for _, part := range []string{"mentors", "mentees", "matches"} {
		assert.Contains(t, body, fmt.Sprintf(`name=%q`, part))
	}
	assert.Contains(t, body, `formaction="/api/process/wide?format=csv"`)
	assert.Contains(t, body, `formaction="/api/process/long?format=csv"`)
	assert.Contains(t, body, "Download wide_report.csv")
	assert.Contains(t, body, "Download long_report.csv")
	assert.Contains(t, body, "1.0 MiB")
}

func TestIndex_EscapesReportNames(t *testing.T) {
	s := New(Config{WideName: "<b>wide</b>"})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<b>wide</b>")
	assert.Contains(t, rec.Body.String(), "Download output2.csv")
}

func TestProcess_Scenario(t *testing.T) {
	rec := do(t, newTestServer(t), "/api/process", allParts(testutil.MatchesCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode(t, rec)
	assert.NotEmpty(t, got["run_id"])
	assert.Equal(t, "Processed", got["state"])

	wide := got["wide"].([]any)
	require.Len(t, wide, 1)
	row := wide[0].(map[string]any)
	assert.Equal(t, "Ann Lee", row["mentor_full"])
	assert.Equal(t, "Cy Ng", row["name_2"])
	assert.Equal(t, "U2", row["uro_2"])

	long := got["long"].([]any)
	require.Len(t, long, 2)
	assert.Equal(t, "U1", long[0].(map[string]any)["uro"])
	assert.Equal(t, "cy@x.com", long[1].(map[string]any)["mentee_email"])

	stats := got["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["expand"].(map[string]any)["assignments"])
}

func TestProcess_MissingParts(t *testing.T) {
	rec := do(t, newTestServer(t), "/api/process", map[string]string{"mentors": testutil.MentorsCSV})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	got := decode(t, rec)
	assert.Equal(t, "AwaitingInputs", got["state"])
	assert.Equal(t, []any{"mentees", "matches"}, got["missing"])
	assert.Contains(t, got["error"], "missing input tables")
	require.Contains(t, got, "wide")
	assert.Nil(t, got["wide"], "no reports were built")
}

func TestProcess_EmptyReportsAreLists(t *testing.T) {
	tests := []struct {
		name     string
		matches  string
		wideRows int
	}{
		{name: "header only", matches: "mentor_ID,uro_1\n", wideRows: 0},
		{name: "mentor without mentees", matches: "mentor_ID,uro_1\nM1,\n", wideRows: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t), "/api/process", allParts(tt.matches))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			got := decode(t, rec)
			require.IsType(t, []any{}, got["wide"])
			require.IsType(t, []any{}, got["long"])
			assert.Len(t, got["wide"], tt.wideRows)
			assert.Empty(t, got["long"])
		})
	}
}

func TestProcess_Strict(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, "/api/process", allParts(testutil.UnresolvedMatchesCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, "/api/process?strict=true", allParts(testutil.UnresolvedMatchesCSV))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decode(t, rec)
	assert.Contains(t, got["error"], "unresolved references")
	require.Contains(t, got, "long")
	assert.Nil(t, got["long"])

	rec = do(t, s, "/api/process?strict=maybe", allParts(testutil.MatchesCSV))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcess_BadRequests(t *testing.T) {
	s := New(Config{MaxUploadBytes: 64})

	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, "/api/process", allParts(testutil.MatchesCSV))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDownload(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantType    string
		wantFile    string
		wantContent string
	}{
		{
			name:        "long csv by default",
			target:      "/api/process/long",
			wantType:    "text/csv; charset=utf-8",
			wantFile:    `attachment; filename="output2.csv"`,
			wantContent: "mentor_ID,mentor_email,uro,mentee_name,mentee_email\nM1,ann@x.com,U1,Bo Kim,bo@x.com\n",
		},
		{
			name:        "wide json",
			target:      "/api/process/wide?format=json",
			wantType:    "application/json",
			wantFile:    `attachment; filename="output1.json"`,
			wantContent: `"email_2": "cy@x.com"`,
		},
		{
			name:        "long yaml",
			target:      "/api/process/long?format=yaml",
			wantType:    "application/yaml",
			wantFile:    `attachment; filename="output2.yaml"`,
			wantContent: "mentee_name: Cy Ng",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t), tt.target, allParts(testutil.MatchesCSV))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantFile, rec.Header().Get("Content-Disposition"))
			assert.NotEmpty(t, rec.Header().Get("X-Rex-Run-Id"))
			assert.Contains(t, rec.Body.String(), tt.wantContent)
		})
	}
}

func TestDownload_Errors(t *testing.T) {
	s := New(Config{WideName: "wide_report", LongName: "long_report"})

	rec := do(t, s, "/api/process/sideways", allParts(testutil.MatchesCSV))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, "/api/process/wide?format=xlsx", allParts(testutil.MatchesCSV))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported format")

	rec = do(t, s, "/api/process/wide", map[string]string{"matches": testutil.MatchesCSV})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, "/api/process/wide", allParts(testutil.MatchesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="wide_report.csv"`, rec.Header().Get("Content-Disposition"))
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(t).serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/healthz", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test helper
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
