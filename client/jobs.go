package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/zetsubou-life/zetsubou-go/models"
)

const (
	DefaultWaitTimeout  = time.Hour
	DefaultPollInterval = 5 * time.Second
)

// JobsService observes and manages asynchronous jobs. Job lifecycles are
// driven entirely server-side; the SDK only reads them.
type JobsService struct {
	c *Client
}

// JobListOptions filters and paginates a job listing. Zero values are
// omitted from the request; Limit defaults to 50 server-side.
type JobListOptions struct {
	Status models.JobStatus
	ToolID string
	Limit  int
	Offset int
}

func (s *JobsService) List(ctx context.Context, opts *JobListOptions) ([]models.Job, error) {
	query := url.Values{}
	if opts == nil {
		opts = &JobListOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(opts.Offset))
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}
	if opts.ToolID != "" {
		query.Set("tool_id", opts.ToolID)
	}

	out, err := doJSON[struct {
		Jobs []models.Job `json:"jobs"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/jobs", query: query})
	if err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (s *JobsService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	if jobID == "" {
		return nil, genericError(codeUnknown, "job id is required")
	}
	out, err := doJSON[struct {
		Job models.Job `json:"job"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/jobs/" + jobID})
	if err != nil {
		return nil, err
	}
	return &out.Job, nil
}

// WaitForCompletion polls a job until it reaches a terminal state. It
// returns the completed job, or an error carrying the job's failure text
// when the job fails or is cancelled. The timeout is enforced against
// elapsed wall-clock time, not iteration count, so a slow fetch cannot
// stretch the budget. Zero timeout and pollInterval select the defaults
// (1 hour, 5 seconds).
func (s *JobsService) WaitForCompletion(ctx context.Context, jobID string, timeout, pollInterval time.Duration) (*models.Job, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	start := time.Now()
	for {
		if time.Since(start) >= timeout {
			return nil, genericError(codeTimeout, "job %s timed out after %s", jobID, timeout)
		}

		job, err := s.Get(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case models.JobCompleted:
			return job, nil
		case models.JobFailed:
			return nil, genericError(codeJobFailed, "job %s failed: %s", jobID, job.Error)
		case models.JobCancelled:
			return nil, genericError(codeJobCancelled, "job %s was cancelled", jobID)
		}

		if err := s.c.sleep(ctx, pollInterval); err != nil {
			return nil, err
		}
	}
}

// Cancel asks the server to stop a pending or running job. It reports
// whether the server accepted the cancellation.
func (s *JobsService) Cancel(ctx context.Context, jobID string) (bool, error) {
	if jobID == "" {
		return false, genericError(codeUnknown, "job id is required")
	}
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodPost, path: fmt.Sprintf("/api/v2/jobs/%s/cancel", jobID)})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// Retry re-submits a failed job and returns the replacement job.
func (s *JobsService) Retry(ctx context.Context, jobID string) (*models.Job, error) {
	if jobID == "" {
		return nil, genericError(codeUnknown, "job id is required")
	}
	out, err := doJSON[struct {
		Job models.Job `json:"job"`
	}](s.c, ctx, request{method: http.MethodPost, path: fmt.Sprintf("/api/v2/jobs/%s/retry", jobID)})
	if err != nil {
		return nil, err
	}
	return &out.Job, nil
}

// Delete removes a job and frees its stored outputs.
func (s *JobsService) Delete(ctx context.Context, jobID string) (bool, error) {
	if jobID == "" {
		return false, genericError(codeUnknown, "job id is required")
	}
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodDelete, path: "/api/v2/jobs/" + jobID})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// Download streams the job's results as a ZIP archive. The caller owns the
// returned reader and must close it.
func (s *JobsService) Download(ctx context.Context, jobID string) (io.ReadCloser, error) {
	if jobID == "" {
		return nil, genericError(codeUnknown, "job id is required")
	}
	resp, err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/jobs/%s/download", jobID),
		stream: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.stream, nil
}

// DownloadToFile streams the job's results into a local file.
func (s *JobsService) DownloadToFile(ctx context.Context, jobID, path string) error {
	body, err := s.Download(ctx, jobID)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return genericError(codeConnection, "creating %s: %v", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return genericError(codeConnection, "writing %s: %v", path, err)
	}
	return f.Close()
}

// Progress fetches the job and condenses it into a progress snapshot.
func (s *JobsService) Progress(ctx context.Context, jobID string) (*models.JobProgress, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &models.JobProgress{
		Status:      job.Status,
		Progress:    job.Progress,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}, nil
}
