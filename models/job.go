package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is one the server will never leave.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

type Job struct {
	ID          string
	ToolID      string
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CompletedAt *time.Time
	Progress    int
	Error       string
	Inputs      []string
	Outputs     []string
	Options     map[string]any
}

// rawJob carries every key spelling the API is known to emit for a job.
// Older endpoints use job_id/tool/input_files, newer ones id/tool_id/inputs.
type rawJob struct {
	ID          string         `json:"id"`
	JobID       string         `json:"job_id"`
	ToolID      string         `json:"tool_id"`
	Tool        string         `json:"tool"`
	Status      JobStatus      `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	Progress    int            `json:"progress"`
	Error       string         `json:"error"`
	Inputs      []string       `json:"inputs"`
	InputFiles  []string       `json:"input_files"`
	Outputs     []string       `json:"outputs"`
	OutputFiles []string       `json:"output_files"`
	Options     map[string]any `json:"options"`
}

func (j *Job) UnmarshalJSON(data []byte) error {
	var raw rawJob
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id := firstNonEmpty(raw.ID, raw.JobID)
	if id == "" {
		return fmt.Errorf("job response has no id or job_id field")
	}
	if raw.Status == "" {
		return fmt.Errorf("job %s has no status field", id)
	}

	*j = Job{
		ID:          id,
		ToolID:      firstNonEmpty(raw.ToolID, raw.Tool),
		Status:      raw.Status,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		CompletedAt: raw.CompletedAt,
		Progress:    raw.Progress,
		Error:       raw.Error,
		Inputs:      firstNonNil(raw.Inputs, raw.InputFiles),
		Outputs:     firstNonNil(raw.Outputs, raw.OutputFiles),
		Options:     raw.Options,
	}
	if j.Options == nil {
		j.Options = map[string]any{}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...[]string) []string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return []string{}
}

// JobProgress is a point-in-time snapshot assembled from a Job.
type JobProgress struct {
	Status      JobStatus
	Progress    int
	Error       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CompletedAt *time.Time
}
