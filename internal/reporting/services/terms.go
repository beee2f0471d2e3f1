package services

import (
	"context"
	"fmt"
)

// TermsService covers deadline monitoring for lawsuit and court-order
// production.
type TermsService struct{ base }

func termsPath(kind Kind, endpoint string) string {
	return fmt.Sprintf("/api/terms/v2/%s/%s", kind, endpoint)
}

// Analyze assigns stages and monitoring statuses to every case of kind.
func (s *TermsService) Analyze(ctx context.Context, kind Kind) (TermsAnalysis, error) {
	var out TermsAnalysis
	err := s.api.GetJSON(withOperation(ctx, "terms.analyze"), termsPath(kind, "analyze_"+string(kind)), nil, &out)
	return out, err
}

// Charts returns per-check status counts for the stage charts.
func (s *TermsService) Charts(ctx context.Context, kind Kind) (ChartData, error) {
	var out ChartData
	err := s.api.GetJSON(withOperation(ctx, "terms.charts"),
		termsPath(kind, "analyze_"+string(kind)+"_charts"), nil, &out)
	return out, err
}

// FilteredCases lists the cases of kind whose check has the given status.
// The backend matches status exactly, so it must not be empty.
func (s *TermsService) FilteredCases(ctx context.Context, kind Kind, check, status string) (FilteredCases, error) {
	var out FilteredCases
	if status == "" {
		return out, fmt.Errorf("a status is required to list the cases of %s", check)
	}
	q := struct {
		Stage  string `form:"stage"`
		Status string `form:"status"`
	}{Stage: check, Status: status}
	err := s.api.GetJSON(withOperation(ctx, "terms.filtered"), termsPath(kind, "filtered-cases"), q, &out)
	return out, err
}
