package services

import (
	"context"
	"fmt"

	"github.com/legaldesk/casectl/internal/export"
)

// FileService manages uploaded reports.
type FileService struct{ base }

type fileTypeQuery struct {
	FileType FileType `form:"file_type"`
}

// Upload validates and sends a report spreadsheet into slot ft.
func (s *FileService) Upload(ctx context.Context, ft FileType, path string) (UploadResult, error) {
	var out UploadResult
	if err := export.ValidateUpload(path); err != nil {
		return out, err
	}
	ctx = withOperation(ctx, "files.upload")
	err := s.api.Upload(ctx, "/upload-file", fileTypeQuery{FileType: ft}, nil, "file", path, &out)
	if err != nil {
		return out, fmt.Errorf("upload %s: %w", ft, err)
	}
	s.invalidate()
	s.logger.Info("report uploaded", "file_type", ft, "filename", out.Filename)
	return out, nil
}

// Status reports which slots are loaded and whether analysis can start.
func (s *FileService) Status(ctx context.Context) (FilesStatus, error) {
	var out FilesStatus
	err := s.api.GetJSON(withOperation(ctx, "files.status"), "/files-status", nil, &out)
	return out, err
}

// Remove forgets the report in slot ft.
func (s *FileService) Remove(ctx context.Context, ft FileType) (RemoveResult, error) {
	var out RemoveResult
	err := s.api.Delete(withOperation(ctx, "files.remove"), "/remove-file", fileTypeQuery{FileType: ft}, &out)
	if err != nil {
		return out, err
	}
	s.invalidate()
	return out, nil
}

// ResetAnalysis drops every server-side analysis result.
func (s *FileService) ResetAnalysis(ctx context.Context) (ResetResult, error) {
	var out ResetResult
	err := s.api.PostJSON(withOperation(ctx, "files.reset"), "/reset-analysis", nil, nil, &out)
	if err != nil {
		return out, err
	}
	s.invalidate()
	return out, nil
}

// TestData returns column diagnostics for the loaded detailed report.
func (s *FileService) TestData(ctx context.Context) (TestData, error) {
	var out TestData
	err := s.api.GetJSON(withOperation(ctx, "files.test-data"), "/test-data", nil, &out)
	return out, err
}

// Available lists which processed datasets exist and their row counts.
func (s *FileService) Available(ctx context.Context) (AvailableData, error) {
	var out AvailableData
	err := s.api.GetJSON(withOperation(ctx, "files.available"), "/api/save/all-processed-data", nil, &out)
	return out, err
}

// Ping asks the backend whether it is up.
func (s *FileService) Ping(ctx context.Context) (ServerStatus, error) {
	var out ServerStatus
	err := s.api.GetJSON(withOperation(ctx, "server.ping"), "/test", nil, &out)
	return out, err
}
