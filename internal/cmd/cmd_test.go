package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasbasham/cli-runtime/iooption"

	"github.com/filedrop/service/internal/files"
)

// fakeAPI serves the upload and files endpoints plus a bucket that accepts
// PUTs on signed URLs.
type fakeAPI struct {
	mu      sync.Mutex
	srv     *httptest.Server
	objects map[string]string
	rows    []files.FileRecord
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{objects: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/upload-url", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileName string `json:"fileName"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		path := "uploads/" + req.FileName
		writeJSON(w, http.StatusOK, map[string]any{
			"signedUrl": f.srv.URL + "/bucket/" + path + "?sig=1",
			"method":    http.MethodPut,
			"path":      path,
			"publicUrl": f.srv.URL + "/public/" + path,
			"expiresAt": time.Now().Add(time.Minute),
		})
	})
	mux.HandleFunc("PUT /bucket/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/bucket/")
		if strings.Contains(key, "denied") {
			http.Error(w, "AccessDenied", http.StatusForbidden)
			return
		}
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.objects[key] = string(data)
		f.mu.Unlock()
	})
	mux.HandleFunc("POST /api/v1/files", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FileURL  string `json:"file_url"`
			FileName string `json:"file_name"`
			FileSize *int64 `json:"file_size"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.HasPrefix(req.FileName, "norecord") {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Insert failed: connection refused"})
			return
		}
		f.mu.Lock()
		rec := files.FileRecord{ID: int64(len(f.rows) + 1), FileName: req.FileName, FileURL: req.FileURL, FileSize: req.FileSize, CreatedAt: time.Now()}
		f.rows = append([]files.FileRecord{rec}, f.rows...)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "File URL saved successfully", "data": rec})
	})
	mux.HandleFunc("GET /api/v1/files", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"files": append([]files.FileRecord{}, f.rows...), "count": len(f.rows)})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommandWithArgs(NewFiledropOptions(iooption.IOStreams{
		In:     strings.NewReader(""),
		Out:    &out,
		ErrOut: &errOut,
	}))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func tempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestUpload(t *testing.T) {
	api := newFakeAPI(t)
	dir := t.TempDir()
	a := tempFile(t, dir, "a.txt", "alpha")
	b := tempFile(t, dir, "b.txt", "beta")

	out, errOut, err := execute(t, "upload", "--server", api.srv.URL+"/api/v1", a, b)

	require.NoError(t, err)
	assert.Contains(t, out, "a.txt\t"+api.srv.URL+"/public/uploads/a.txt")
	assert.Contains(t, out, "b.txt\t"+api.srv.URL+"/public/uploads/b.txt")
	assert.Contains(t, errOut, "[ 10%] a.txt")
	assert.Contains(t, errOut, "[100%] b.txt")
	assert.Equal(t, "alpha", api.objects["uploads/a.txt"])
	assert.Len(t, api.rows, 2)
}

func TestUpload_PartialFailure(t *testing.T) {
	api := newFakeAPI(t)
	dir := t.TempDir()
	bad := tempFile(t, dir, "denied.txt", "x")
	good := tempFile(t, dir, "ok.txt", "y")

	out, errOut, err := execute(t, "upload", "--server", api.srv.URL+"/api/v1", bad, good)

	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed to upload", err.Error())
	assert.Contains(t, errOut, "error: denied.txt:")
	assert.Contains(t, out, "ok.txt\t")
	require.Len(t, api.rows, 1)
	assert.Equal(t, "ok.txt", api.rows[0].FileName)
}

func TestUpload_RecordFailureIsWarning(t *testing.T) {
	api := newFakeAPI(t)
	p := tempFile(t, t.TempDir(), "norecord.txt", "z")

	out, errOut, err := execute(t, "upload", "--server", api.srv.URL+"/api/v1", p)

	require.NoError(t, err)
	assert.Contains(t, out, "norecord.txt\t")
	assert.Contains(t, errOut, "warning: norecord.txt was uploaded but not recorded")
	assert.Contains(t, errOut, "Insert failed: connection refused")
	assert.Equal(t, "z", api.objects["uploads/norecord.txt"])
}

func TestUpload_MissingFile(t *testing.T) {
	_, _, err := execute(t, "upload", filepath.Join(t.TempDir(), "nope.txt"))

	assert.ErrorContains(t, err, "nope.txt")
}

func TestUpload_NoArgs(t *testing.T) {
	_, _, err := execute(t, "upload")

	assert.EqualError(t, err, "at least one file is required")
}

func TestList(t *testing.T) {
	api := newFakeAPI(t)
	p := tempFile(t, t.TempDir(), "a.txt", "alpha")
	_, _, err := execute(t, "upload", "--server", api.srv.URL+"/api/v1", p)
	require.NoError(t, err)

	out, _, err := execute(t, "list", "--server", api.srv.URL+"/api/v1")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "a.txt")
	assert.Contains(t, lines[1], "5")
}

func TestList_Empty(t *testing.T) {
	api := newFakeAPI(t)

	out, errOut, err := execute(t, "list", "--server", api.srv.URL+"/api/v1")

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No files uploaded yet.")
}

func TestList_JSON(t *testing.T) {
	api := newFakeAPI(t)

	out, _, err := execute(t, "list", "-o", "json", "--server", api.srv.URL+"/api/v1")

	require.NoError(t, err)
	assert.JSONEq(t, `{"files":[],"count":0}`, out)
}

func TestList_BadOutput(t *testing.T) {
	_, _, err := execute(t, "list", "-o", "yaml")

	assert.EqualError(t, err, `unknown output format "yaml"`)
}

func TestServerFromEnv(t *testing.T) {
	api := newFakeAPI(t)
	t.Setenv(serverEnv, api.srv.URL+"/api/v1")

	_, errOut, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, errOut, "No files uploaded yet.")
}
