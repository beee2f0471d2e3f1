package services

import (
	"context"

	"github.com/legaldesk/casectl/internal/cache"
	"github.com/legaldesk/casectl/internal/reporting/apiclient"
)

const caseKey = "case:"

type CaseService struct{ base }

// Get returns every field of a case grouped for display. Results are cached
// until the next analysis or upload.
func (s *CaseService) Get(ctx context.Context, code string) (CaseDetail, error) {
	return cache.Fetch(ctx, s.cache, caseKey+code, func(ctx context.Context) (CaseDetail, error) {
		var out CaseDetail
		err := s.api.GetJSON(withOperation(ctx, "cases.get"), "/api/case/"+apiclient.PathEscape(code), nil, &out)
		return out, err
	})
}
