package scan

import (
	"context"
	"time"
)

// Job adapts the scan service to the scheduler.
type Job struct {
	service *Service
	timeout time.Duration
}

func NewJob(service *Service) *Job {
	return &Job{
		service: service,
		timeout: 15 * time.Minute,
	}
}

func (j *Job) Name() string {
	return "universe_scan"
}

func (j *Job) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, _, err := j.service.Run(ctx)
	return err
}
