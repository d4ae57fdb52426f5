package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// fakeAPI is a stateful in-memory stand-in for the public API. Jobs advance
// one lifecycle step per fetch so the polling loop sees the full
// pending/running/completed progression.
type fakeAPI struct {
	mu     sync.Mutex
	jobs   map[string]*fakeJob
	nextID int
}

type fakeJob struct {
	toolID  string
	status  models.JobStatus
	fetches int
	output  []byte
}

func (f *fakeAPI) router(t *testing.T) http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-API-Key") == "" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]any{
					"message": "Invalid API key", "code": "INVALID_API_KEY",
				})
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/api/v2/tools/{toolID}/execute", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		require.NotEmpty(t, req.MultipartForm.File["file_0"])

		f.mu.Lock()
		f.nextID++
		id := fmt.Sprintf("job-%d", f.nextID)
		f.jobs[id] = &fakeJob{
			toolID: chi.URLParam(req, "toolID"),
			status: models.JobPending,
			output: []byte("result-archive"),
		}
		f.mu.Unlock()

		writeJSON(t, w, http.StatusOK, map[string]any{
			"job": map[string]any{"id": id, "tool_id": chi.URLParam(req, "toolID"), "status": "pending"},
		})
	})

	r.Get("/api/v2/jobs/{jobID}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		job, ok := f.jobs[chi.URLParam(req, "jobID")]
		if ok {
			job.fetches++
			switch job.fetches {
			case 1:
				job.status = models.JobPending
			case 2:
				job.status = models.JobRunning
			default:
				job.status = models.JobCompleted
			}
		}
		f.mu.Unlock()

		if !ok {
			writeJSON(t, w, http.StatusNotFound, map[string]any{
				"message": "Job not found", "code": "JOB_NOT_FOUND",
			})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"job": map[string]any{
				"id": chi.URLParam(req, "jobID"), "tool_id": job.toolID,
				"status": string(job.status), "progress": job.fetches * 30,
			},
		})
	})

	r.Get("/api/v2/jobs/{jobID}/download", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		job, ok := f.jobs[chi.URLParam(req, "jobID")]
		f.mu.Unlock()
		if !ok || job.status != models.JobCompleted {
			writeJSON(t, w, http.StatusNotFound, map[string]any{
				"message": "No output available", "code": "JOB_NOT_FOUND",
			})
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(job.output)
	})

	return r
}

func TestExecutePollDownloadFlow(t *testing.T) {
	api := &fakeAPI{jobs: map[string]*fakeJob{}}
	c := testClient(t, api.router(t))

	job, err := c.Tools.Execute(context.Background(), "remove_bg",
		[]FileInput{File("photo.jpg", bytes.NewReader([]byte("jpeg-bytes")))}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.JobPending, job.Status)

	done, err := c.Jobs.WaitForCompletion(context.Background(), job.ID, time.Minute, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, done.Status)

	body, err := c.Jobs.Download(context.Background(), job.ID)
	require.NoError(t, err)
	defer body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(body)
	require.NoError(t, err)
	assert.Equal(t, "result-archive", buf.String())
}

func TestUnknownJobIsNotFound(t *testing.T) {
	api := &fakeAPI{jobs: map[string]*fakeJob{}}
	c := testClient(t, api.router(t))

	_, err := c.Jobs.Get(context.Background(), "job-missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Job not found", apiErr.Message)
	assert.Equal(t, "JOB_NOT_FOUND", apiErr.Code)
}

func TestMissingKeyIsAuthenticationError(t *testing.T) {
	api := &fakeAPI{jobs: map[string]*fakeJob{}}
	ts := httptest.NewServer(api.router(t))
	t.Cleanup(ts.Close)

	c := New("", WithBaseURL(ts.URL))
	t.Cleanup(c.Close)

	_, err := c.Jobs.Get(context.Background(), "job-1")
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
}
