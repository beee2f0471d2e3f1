package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/legaldesk/casectl/internal/reporting/apiclient"
)

// Report names a server-side export.
type Report string

const (
	ReportDetailed          Report = "detailed-report"
	ReportDocuments         Report = "documents-report"
	ReportLawsuitProduction Report = "lawsuit-production"
	ReportOrderProduction   Report = "order-production"
	ReportDocumentsAnalysis Report = "documents-analysis"
	ReportTasks             Report = "tasks"
	ReportRainbow           Report = "rainbow-analysis"
	ReportAll               Report = "all-analysis"
)

// Reports lists every export in display order.
var Reports = []Report{
	ReportDetailed,
	ReportDocuments,
	ReportLawsuitProduction,
	ReportOrderProduction,
	ReportDocumentsAnalysis,
	ReportTasks,
	ReportRainbow,
	ReportAll,
}

// Extension is the file extension of the report's blob.
func (r Report) Extension() string {
	if r == ReportAll {
		return ".zip"
	}
	return ".xlsx"
}

func ParseReport(s string) (Report, error) {
	if slices.Contains(Reports, Report(s)) {
		return Report(s), nil
	}
	return "", fmt.Errorf("unknown report %q", s)
}

type ExportService struct{ base }

// Download fetches the report blob.
func (s *ExportService) Download(ctx context.Context, r Report) (*apiclient.Blob, error) {
	blob, err := s.api.Download(withOperation(ctx, "exports.download"), "/api/save/"+string(r), nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", r, err)
	}
	return blob, nil
}
