package uploader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrop/service/internal/errdefs"
	"github.com/filedrop/service/internal/files"
	"github.com/filedrop/service/internal/storage"
	"github.com/filedrop/service/internal/upload"
)

// fakeBucket stands in for object storage: it presigns URLs that point back
// at the test server and accepts PUTs on them.
type fakeBucket struct {
	mu      sync.Mutex
	base    string
	objects map[string][]byte
	types   map[string]string
	puts    int
}

func (b *fakeBucket) PresignUpload(_ context.Context, key string, ttl time.Duration) (*storage.Target, error) {
	return &storage.Target{
		URL:       b.base + "/bucket/" + key + "?X-Amz-Signature=sig",
		Method:    http.MethodPut,
		Key:       key,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (b *fakeBucket) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
	return nil
}

func (b *fakeBucket) PublicURL(key string) string {
	return b.base + "/public/" + key
}

func (b *fakeBucket) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if strings.Contains(key, "denied") {
		http.Error(w, "AccessDenied", http.StatusForbidden)
		return
	}
	data, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
	b.objects[key] = data
	b.types[key] = r.Header.Get("Content-Type")
	w.WriteHeader(http.StatusOK)
}

// rowStore is an in-memory files.Store.
type rowStore struct {
	mu      sync.Mutex
	rows    []files.FileRecord
	failErr error
}

func (s *rowStore) Create(_ context.Context, name, url string, size *int64) (*files.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	f := files.FileRecord{ID: int64(len(s.rows) + 1), FileName: name, FileURL: url, FileSize: size, CreatedAt: time.Now()}
	s.rows = append(s.rows, f)
	return &f, nil
}

func (s *rowStore) List(context.Context) ([]files.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]files.FileRecord, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

func (s *rowStore) GetByID(context.Context, int64) (*files.FileRecord, error) {
	return nil, errdefs.ErrNotFound
}

type testEnv struct {
	client *Client
	bucket *fakeBucket
	rows   *rowStore
}

func newTestEnv(t *testing.T, mode string) *testEnv {
	t.Helper()
	r := chi.NewRouter()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	bucket := &fakeBucket{base: srv.URL, objects: map[string][]byte{}, types: map[string]string{}}
	rows := &rowStore{}

	uploadSvc := upload.NewService(bucket, upload.Options{Mode: mode, TTL: time.Minute, InlineMaxBytes: 1 << 20})
	r.Put("/bucket/*", bucket.handlePut)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/upload-url", upload.NewHandler(uploadSvc, false).UploadURL)
		r.Route("/files", files.NewHandler(files.NewService(rows, nil), false).Routes)
	})

	return &testEnv{client: NewClient(srv.URL+"/api/v1", srv.Client()), bucket: bucket, rows: rows}
}

func writeFile(t *testing.T, name, content string) SelectedFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	f, err := NewSelectedFile(path)
	require.NoError(t, err)
	return f
}

func TestRun_IdenticalNames(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)
	first := writeFile(t, "a.txt", "first")
	second := writeFile(t, "a.txt", "second")

	o := New(env.client)
	results := o.Run(context.Background(), []SelectedFile{first, second})

	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, OutcomeRecorded, res.Outcome)
		assert.NoError(t, res.Err)
		require.NotNil(t, res.Record)
		assert.Equal(t, "a.txt", res.Record.FileName)
	}
	assert.NotEqual(t, results[0].Path, results[1].Path)
	assert.NotEqual(t, results[0].Record.ID, results[1].Record.ID)

	assert.Equal(t, "first", string(env.bucket.objects[results[0].Path]))
	assert.Equal(t, "second", string(env.bucket.objects[results[1].Path]))
	assert.Equal(t, "text/plain; charset=utf-8", env.bucket.types[results[0].Path])
	assert.Len(t, env.rows.rows, 2)
	assert.Equal(t, results[0].PublicURL, env.rows.rows[0].FileURL)
	require.NotNil(t, env.rows.rows[0].FileSize)
	assert.Equal(t, int64(5), *env.rows.rows[0].FileSize)

	state := o.State()
	assert.Equal(t, ProgressDone, state.Progress(first.ID))
	assert.Equal(t, ProgressDone, state.Progress(second.ID))
	assert.Len(t, state.Uploaded(), 2)
}

func TestRun_TransferFailureSkipsRecordAndContinues(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)
	bad := writeFile(t, "denied.txt", "nope")
	good := writeFile(t, "b.txt", "yes")

	o := New(env.client)
	results := o.Run(context.Background(), []SelectedFile{bad, good})

	require.Len(t, results, 2)
	assert.Equal(t, OutcomeNotUploaded, results[0].Outcome)
	assert.ErrorContains(t, results[0].Err, "403")
	assert.Nil(t, results[0].Record)

	assert.Equal(t, OutcomeRecorded, results[1].Outcome)

	require.Len(t, env.rows.rows, 1)
	assert.Equal(t, "b.txt", env.rows.rows[0].FileName)
	assert.Equal(t, 0, o.State().Progress(bad.ID))
	assert.Equal(t, ProgressDone, o.State().Progress(good.ID))
}

func TestRun_IssuerFailureSurfacesServerMessage(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)
	f := writeFile(t, "a.txt", "x")
	f.Name = ""

	results := New(env.client).Run(context.Background(), []SelectedFile{f})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeNotUploaded, results[0].Outcome)
	assert.ErrorContains(t, results[0].Err, "fileName is required")

	var apiErr *APIError
	require.True(t, errors.As(results[0].Err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Zero(t, env.bucket.puts)
}

func TestRun_RecordFailureIsWarning(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)
	env.rows.failErr = errdefs.Operation("insert file", errors.New(`relation "file_upload" does not exist`))
	f := writeFile(t, "a.txt", "kept")

	o := New(env.client)
	results := o.Run(context.Background(), []SelectedFile{f})

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, OutcomeUploadedNotRecorded, res.Outcome)
	assert.NoError(t, res.Err)
	assert.ErrorContains(t, res.Warning, "Insert failed")
	assert.Equal(t, "kept", string(env.bucket.objects[res.Path]))

	assert.Equal(t, ProgressDone, o.State().Progress(f.ID))
	uploaded := o.State().Uploaded()
	require.Len(t, uploaded, 1)
	assert.Nil(t, uploaded[0].Record)
}

func TestRun_Inline(t *testing.T) {
	env := newTestEnv(t, upload.ModeInline)
	f := writeFile(t, "note.txt", "inline bytes")

	results := New(env.client, WithInline(true)).Run(context.Background(), []SelectedFile{f})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeRecorded, results[0].Outcome)
	assert.Equal(t, "inline bytes", string(env.bucket.objects[results[0].Path]))
	assert.Zero(t, env.bucket.puts)
	assert.NotContains(t, results[0].PublicURL, "?")
}

func TestRun_ObserverSeesProgressSequence(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)
	f := writeFile(t, "a.txt", "x")

	var seen []int
	o := New(env.client, WithObserver(func(s State) {
		p := s.Progress(f.ID)
		if len(seen) == 0 || seen[len(seen)-1] != p {
			seen = append(seen, p)
		}
	}))
	o.Run(context.Background(), []SelectedFile{f})

	assert.Equal(t, []int{0, ProgressStarted, ProgressTargeted, ProgressDone}, seen)
}

func TestRun_Empty(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)

	results := New(env.client).Run(context.Background(), nil)

	assert.Empty(t, results)
}

func TestClient_ListFiles(t *testing.T) {
	env := newTestEnv(t, upload.ModeDirect)
	ctx := context.Background()

	list, err := env.client.ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
	assert.Empty(t, list.Files)

	_, err = env.client.RecordFile(ctx, RecordRequest{FileURL: "u", FileName: "a.txt"})
	require.NoError(t, err)

	list, err = env.client.ListFiles(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "a.txt", list.Files[0].FileName)
	assert.Equal(t, "u", list.Files[0].FileURL)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).ListFiles(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "HTTP 502: Bad Gateway: bad gateway", apiErr.Message)
}
