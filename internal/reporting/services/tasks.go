package services

import (
	"context"

	"github.com/legaldesk/casectl/internal/reporting/apiclient"
)

type TaskService struct{ base }

// Calculate builds the task list from the analysis results. An empty
// executor returns every task.
func (s *TaskService) Calculate(ctx context.Context, executor string) (TaskCalculation, error) {
	var out TaskCalculation
	q := struct {
		Executor string `form:"executor,omitempty"`
	}{Executor: executor}
	err := s.api.GetJSON(withOperation(ctx, "tasks.calculate"), "/api/tasks/calculate", q, &out)
	return out, err
}

// List returns previously calculated tasks.
func (s *TaskService) List(ctx context.Context, executor string) (TaskList, error) {
	var out TaskList
	q := struct {
		Executor string `form:"responsibleExecutor,omitempty"`
	}{Executor: executor}
	err := s.api.GetJSON(withOperation(ctx, "tasks.list"), "/api/tasks/list", q, &out)
	return out, err
}

// Get returns a task by code. Task is nil when the code is unknown.
func (s *TaskService) Get(ctx context.Context, code string) (TaskLookup, error) {
	var out TaskLookup
	err := s.api.GetJSON(withOperation(ctx, "tasks.get"), "/api/tasks/"+apiclient.PathEscape(code), nil, &out)
	return out, err
}

// Status reports which inputs for task calculation are present.
func (s *TaskService) Status(ctx context.Context) (TaskStatus, error) {
	var out TaskStatus
	err := s.api.GetJSON(withOperation(ctx, "tasks.status"), "/api/tasks/status", nil, &out)
	return out, err
}

// SaveAll stores calculated tasks on the server side.
func (s *TaskService) SaveAll(ctx context.Context) (TaskSaveResult, error) {
	var out TaskSaveResult
	err := s.api.GetJSON(withOperation(ctx, "tasks.save-all"), "/api/tasks/save-all", nil, &out)
	return out, err
}
