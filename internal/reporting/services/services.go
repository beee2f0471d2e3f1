// Package services wraps the reporting backend endpoints in typed calls.
// A single Services value is built per process and handed to commands
// through the command context.
package services

import (
	"context"
	"log/slog"

	"github.com/legaldesk/casectl/internal/cache"
	"github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/log"
	"github.com/legaldesk/casectl/internal/reporting/apiclient"
)

// API is the transport the services need. *apiclient.Client satisfies it.
type API interface {
	GetJSON(ctx context.Context, path string, query any, out any) error
	PostJSON(ctx context.Context, path string, query any, body any, out any) error
	PostForm(ctx context.Context, path string, fields any, out any) error
	Delete(ctx context.Context, path string, query any, out any) error
	Upload(ctx context.Context, path string, query any, fields map[string]string,
		fileField string, filePath string, out any) error
	Download(ctx context.Context, path string, query any) (*apiclient.Blob, error)
}

// Services groups the per-area service objects.
type Services struct {
	Files      *FileService
	Filters    *FilterService
	Rainbow    *RainbowService
	Terms      *TermsService
	Documents  *DocumentService
	Tasks      *TaskService
	Cases      *CaseService
	Exports    *ExportService
	Anonymizer *AnonymizerService

	cache *cache.Cache
}

// New wires every service to api. c may be nil, which disables caching.
func New(api API, c *cache.Cache, logger *slog.Logger) *Services {
	if logger == nil {
		logger = log.Discard()
	}
	b := base{api: api, cache: c, logger: logger}
	return &Services{
		Files:      &FileService{base: b},
		Filters:    &FilterService{base: b},
		Rainbow:    &RainbowService{base: b},
		Terms:      &TermsService{base: b},
		Documents:  &DocumentService{base: b},
		Tasks:      &TaskService{base: b},
		Cases:      &CaseService{base: b},
		Exports:    &ExportService{base: b},
		Anonymizer: &AnonymizerService{base: b},
		cache:      c,
	}
}

// Cache returns the response cache, or nil.
func (s *Services) Cache() *cache.Cache { return s.cache }

type base struct {
	api    API
	cache  *cache.Cache
	logger *slog.Logger
}

// withOperation tags HTTP logs with the service call name.
func withOperation(ctx context.Context, op string) context.Context {
	return log.WithHTTPLogContext(ctx, log.HTTPLogContext{Operation: op})
}

// invalidate drops cached responses after calls that change backend state.
func (b base) invalidate() {
	if b.cache != nil {
		b.cache.Invalidate()
	}
}

type FactoryKeyType struct{}

// FactoryKey stores the Factory in the command context.
var FactoryKey = FactoryKeyType{}

// Factory builds Services from the active profile configuration.
type Factory func(cfg config.Hook, logger *slog.Logger) (*Services, error)
