package services

import "context"

type DocumentService struct{ base }

// Analyze runs document deadline monitoring.
func (s *DocumentService) Analyze(ctx context.Context) (DocumentsAnalysis, error) {
	var out DocumentsAnalysis
	err := s.api.GetJSON(withOperation(ctx, "documents.analyze"), "/api/documents/analyze_documents", nil, &out)
	return out, err
}

// Charts returns per document type status counts.
func (s *DocumentService) Charts(ctx context.Context) (ChartData, error) {
	var out ChartData
	err := s.api.GetJSON(withOperation(ctx, "documents.charts"), "/api/documents/analyze_document_charts", nil, &out)
	return out, err
}

// Filter lists documents with a monitoring status, optionally narrowed to a
// document type (executionDocument, courtDecision, courtOrder).
func (s *DocumentService) Filter(ctx context.Context, status, documentType string) (DocumentList, error) {
	var out DocumentList
	q := struct {
		Status       string `form:"status"`
		DocumentType string `form:"documentType,omitempty"`
	}{Status: status, DocumentType: documentType}
	err := s.api.GetJSON(withOperation(ctx, "documents.filter"), "/api/documents/filter_documents", q, &out)
	return out, err
}

// Statuses returns the monitoring status distribution.
func (s *DocumentService) Statuses(ctx context.Context) (DocumentStatuses, error) {
	var out DocumentStatuses
	err := s.api.GetJSON(withOperation(ctx, "documents.statuses"), "/api/documents/document_statuses", nil, &out)
	return out, err
}

// Get looks up a single document.
func (s *DocumentService) Get(ctx context.Context, caseCode, documentType, department string) (DocumentDetail, error) {
	var out DocumentDetail
	q := struct {
		CaseCode     string `form:"case_code"`
		DocumentType string `form:"document_type"`
		Department   string `form:"department"`
	}{CaseCode: caseCode, DocumentType: documentType, Department: department}
	err := s.api.GetJSON(withOperation(ctx, "documents.get"), "/api/documents/document", q, &out)
	return out, err
}
