package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/legaldesk/casectl/internal/export"
	"github.com/legaldesk/casectl/internal/reporting/apiclient"
)

const anonymizerPath = "/api/additional_processing/"

// AnonymizerService drives report depersonalization.
type AnonymizerService struct{ base }

// Load uploads a report for depersonalization. reportType is
// detailed_report or documents_report.
func (s *AnonymizerService) Load(ctx context.Context, reportType, path string) (AnonymizeLoadResult, error) {
	var out AnonymizeLoadResult
	if err := export.ValidateUpload(path); err != nil {
		return out, err
	}
	err := s.api.Upload(withOperation(ctx, "anonymizer.load"), anonymizerPath+"load_report", nil,
		map[string]string{"report_type": reportType}, "file", path, &out)
	return out, err
}

// Run applies rules to the loaded report. rules may be nil to use only the
// default rules.
func (s *AnonymizerService) Run(
	ctx context.Context,
	reportType string,
	rules json.RawMessage,
	useDefaults bool,
) (AnonymizeResult, error) {
	var out AnonymizeResult
	if len(rules) == 0 {
		rules = json.RawMessage("{}")
	}
	if !json.Valid(rules) {
		return out, fmt.Errorf("rules are not valid JSON")
	}
	fields := struct {
		ReportType      string `form:"report_type"`
		ConfigJSON      string `form:"config_json"`
		UseDefaultRules string `form:"use_default_rules"`
	}{ReportType: reportType, ConfigJSON: string(rules), UseDefaultRules: strconv.FormatBool(useDefaults)}
	err := s.api.PostForm(withOperation(ctx, "anonymizer.run"), anonymizerPath+"anonymize", fields, &out)
	return out, err
}

// Download fetches the depersonalized workbook.
func (s *AnonymizerService) Download(ctx context.Context, reportType string) (*apiclient.Blob, error) {
	q := struct {
		ReportType string `form:"report_type"`
	}{ReportType: reportType}
	return s.api.Download(withOperation(ctx, "anonymizer.download"), anonymizerPath+"download_anonymized", q)
}

// Rules returns the default rule set.
func (s *AnonymizerService) Rules(ctx context.Context) (AnonymizeRules, error) {
	var out AnonymizeRules
	err := s.api.GetJSON(withOperation(ctx, "anonymizer.rules"), anonymizerPath+"get_default_rules", nil, &out)
	return out, err
}

// Clear drops temporary data for reportType, or for all reports when empty.
func (s *AnonymizerService) Clear(ctx context.Context, reportType string) (AnonymizeClearResult, error) {
	var out AnonymizeClearResult
	q := struct {
		ReportType string `form:"report_type,omitempty"`
	}{ReportType: reportType}
	err := s.api.Delete(withOperation(ctx, "anonymizer.clear"), anonymizerPath+"clear_temp_data", q, &out)
	return out, err
}
