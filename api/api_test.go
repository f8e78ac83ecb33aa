package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TFMV/sheetdiff/api"
	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	csvA = "id,name,age\n1,Bob,30\n2,Amy,25\n"
	csvB = "id,name,age\n2,Amy,26\n3,Cid,40\n"
)

// TestNewServer ensures that creating a new server does not return a nil instance
func TestNewServer(t *testing.T) {
	s := api.NewServer(api.ServerOptions{Port: 3000})
	require.NotNil(t, s, "Expected a non-nil server instance")
}

// TestHealthEndpoint checks if the /health endpoint returns "OK"
func TestHealthEndpoint(t *testing.T) {
	s := api.NewServer(api.ServerOptions{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

// versionResponse is used for JSON unmarshalling in the /version endpoint test
type versionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Time    string `json:"time"`
}

// TestVersionEndpoint checks if the /version endpoint returns the correct JSON structure
func TestVersionEndpoint(t *testing.T) {
	s := api.NewServer(api.ServerOptions{})
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err, "Unexpected error when making request to /version")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var v versionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v), "Failed to decode JSON response")

	assert.Equal(t, "sheetdiff API", v.Service)
	assert.NotEmpty(t, v.Version)
	assert.NotEmpty(t, v.Build)
	assert.NotEmpty(t, v.Time)
}

type upload struct {
	field, filename string
	data            []byte
}

// postDiff sends a multipart POST /diff with the given files and form values.
func postDiff(t *testing.T, s *api.Server, files []upload, values map[string][]string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for name, list := range values {
		for _, v := range list {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/diff", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := s.GetApp().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestDiffEndpoint(t *testing.T) {
	s := api.NewServer(api.ServerOptions{})
	resp := postDiff(t, s, []upload{
		{"file_a", "a.csv", []byte(csvA)},
		{"file_b", "b.csv", []byte(csvB)},
	}, map[string][]string{"key": {"id"}})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.DiffResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.Equal(t, "a.csv", result.FileA)
	assert.Equal(t, "b.csv", result.FileB)
	assert.Equal(t, []string{"id"}, result.KeyColumns)
	assert.Equal(t, int64(1), result.Summary.Deleted)
	assert.Equal(t, int64(1), result.Summary.Added)
	assert.Equal(t, int64(1), result.Summary.Modified)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Sections, 3)
	assert.Equal(t, core.Section{
		Name:    "Modified_cells",
		Columns: []string{"id", "column", "value_a", "value_b"},
		Rows:    [][]string{{"2", "age", "25", "26"}},
	}, result.Sections[2])
}

func TestDiffEndpointWorkbooks(t *testing.T) {
	workbook := func(rows [][]any) []byte {
		f := excelize.NewFile()
		defer f.Close()
		for r, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
		}
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return buf.Bytes()
	}
	rows := [][]any{{"id", "name"}, {1, "Bob"}, {2, "Amy"}}

	s := api.NewServer(api.ServerOptions{})
	resp := postDiff(t, s, []upload{
		{"file_a", "a.xlsx", workbook(rows)},
		{"file_b", "b.xlsx", workbook(rows)},
	}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.DiffResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Zero(t, result.Summary.Deleted)
	assert.Zero(t, result.Summary.Added)
	assert.Zero(t, result.Summary.Modified)
	assert.Equal(t, []string{"row", "id", "name"}, result.Sections[0].Columns)
}

func TestDiffEndpointMissingKey(t *testing.T) {
	s := api.NewServer(api.ServerOptions{})
	resp := postDiff(t, s, []upload{
		{"file_a", "a.csv", []byte(csvA)},
		{"file_b", "b.csv", []byte(csvB)},
	}, map[string][]string{"key": {"id,code"}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	msg := decodeError(t, resp)
	assert.Contains(t, msg, "a.csv")
	assert.Contains(t, msg, `"code"`)
}

func TestDiffEndpointBadRequest(t *testing.T) {
	s := api.NewServer(api.ServerOptions{})

	resp := postDiff(t, s, []upload{{"file_a", "a.csv", []byte(csvA)}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp), "file_b")

	resp = postDiff(t, s, []upload{
		{"file_a", "a.csv", []byte(csvA)},
		{"file_b", "b.csv", []byte(csvB)},
	}, map[string][]string{"strict_empty": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp), "strict_empty")

	req := httptest.NewRequest(http.MethodPost, "/diff", nil)
	plain, err := s.GetApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, plain.StatusCode)
	plain.Body.Close()
}

// TestShutdown verifies that calling Shutdown on the server does not return an error
func TestShutdown(t *testing.T) {
	s := api.NewServer(api.ServerOptions{})
	err := s.Shutdown(context.Background())
	assert.NoError(t, err, "Expected no error calling Shutdown on server")
}
