package services

import (
	"encoding/json"
	"fmt"
)

// Record is a row whose columns are backend report headers.
type Record map[string]any

// FileType names an uploaded report slot on the backend.
type FileType string

const (
	DetailedReport         FileType = "current_detailed_report"
	DocumentsReport        FileType = "documents_report"
	PreviousDetailedReport FileType = "previous_detailed_report"
)

// FileTypes lists the slots in display order.
var FileTypes = []FileType{DetailedReport, DocumentsReport, PreviousDetailedReport}

// ParseFileType accepts the backend name or the short aliases detailed,
// documents and previous.
func ParseFileType(s string) (FileType, error) {
	switch s {
	case "detailed", string(DetailedReport):
		return DetailedReport, nil
	case "documents", string(DocumentsReport):
		return DocumentsReport, nil
	case "previous", string(PreviousDetailedReport):
		return PreviousDetailedReport, nil
	}
	return "", fmt.Errorf("unknown file type %q (expected detailed, documents or previous)", s)
}

type UploadResult struct {
	Message  string   `json:"message" yaml:"message"`
	Filename string   `json:"filename" yaml:"filename"`
	FileType FileType `json:"file_type" yaml:"file_type"`
	Filepath string   `json:"filepath" yaml:"filepath"`
}

type FileState struct {
	Loaded   bool   `json:"loaded" yaml:"loaded"`
	Filepath string `json:"filepath" yaml:"filepath"`
	Exists   bool   `json:"exists" yaml:"exists"`
}

// FilesStatus is the /files-status object: one entry per slot plus the
// ready flag, flattened on the wire.
type FilesStatus struct {
	Files            map[FileType]FileState `json:"files" yaml:"files"`
	ReadyForAnalysis bool                   `json:"ready_for_analysis" yaml:"ready_for_analysis"`
}

func (s *FilesStatus) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Files = map[FileType]FileState{}
	for k, v := range raw {
		if k == "ready_for_analysis" {
			if err := json.Unmarshal(v, &s.ReadyForAnalysis); err != nil {
				return fmt.Errorf("ready_for_analysis: %w", err)
			}
			continue
		}
		if k == "files" {
			// already in our own shape, for values read back from the cache
			var files map[FileType]FileState
			if err := json.Unmarshal(v, &files); err != nil {
				return fmt.Errorf("files: %w", err)
			}
			for ft, st := range files {
				s.Files[ft] = st
			}
			continue
		}
		var st FileState
		if err := json.Unmarshal(v, &st); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		s.Files[FileType(k)] = st
	}
	return nil
}

type RemoveResult struct {
	Message  string   `json:"message" yaml:"message"`
	FileType FileType `json:"file_type" yaml:"file_type"`
	Removed  bool     `json:"removed" yaml:"removed"`
}

type ResetResult struct {
	Message     string   `json:"message" yaml:"message"`
	ClearedData []string `json:"cleared_data" yaml:"cleared_data"`
}

type TestData struct {
	Status        string            `json:"status" yaml:"status"`
	AllColumns    []string          `json:"all_columns,omitempty" yaml:"all_columns,omitempty"`
	TargetColumns map[string]string `json:"target_columns,omitempty" yaml:"target_columns,omitempty"`
	Shape         []int             `json:"shape,omitempty" yaml:"shape,omitempty"`
	SampleData    map[string]any    `json:"sample_data,omitempty" yaml:"sample_data,omitempty"`
}

type DataState struct {
	Loaded   bool `json:"loaded" yaml:"loaded"`
	RowCount int  `json:"row_count" yaml:"row_count"`
}

type AvailableData struct {
	Status  map[string]DataState `json:"status" yaml:"status"`
	Message string               `json:"message" yaml:"message"`
}

type FilterOption struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// FilterOptions maps a filter name (gosb, responsibleExecutor, ...) to its
// values.
type FilterOptions map[string][]FilterOption

type FilterMeta struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Column string `json:"column" yaml:"column"`
}

type FilterMetadata struct {
	Filters      []FilterMeta `json:"filters" yaml:"filters"`
	TotalFilters int          `json:"totalFilters" yaml:"totalFilters"`
}

type ApplyResult struct {
	Data           []Record          `json:"data" yaml:"data"`
	Total          int               `json:"total" yaml:"total"`
	FiltersApplied map[string]string `json:"filtersApplied" yaml:"filtersApplied"`
}

type RainbowAnalysis struct {
	Data       []int  `json:"data" yaml:"data"`
	TotalCases int    `json:"totalCases" yaml:"totalCases"`
	Message    string `json:"message" yaml:"message"`
}

// CaseSummary is a row of the rainbow and stage drill-down tables. The
// backend fills missing values with "Не указано".
type CaseSummary struct {
	CaseCode              string `json:"caseCode" yaml:"caseCode"`
	ResponsibleExecutor   string `json:"responsibleExecutor" yaml:"responsibleExecutor"`
	Gosb                  string `json:"gosb" yaml:"gosb"`
	CourtProtectionMethod string `json:"courtProtectionMethod" yaml:"courtProtectionMethod"`
	CourtReviewingCase    string `json:"courtReviewingCase" yaml:"courtReviewingCase"`
	CaseStatus            string `json:"caseStatus" yaml:"caseStatus"`
	CurrentPeriodColor    string `json:"currentPeriodColor,omitempty" yaml:"currentPeriodColor,omitempty"`
	PreviousPeriodColor   string `json:"previousPeriodColor,omitempty" yaml:"previousPeriodColor,omitempty"`
	FilingDate            string `json:"filingDate,omitempty" yaml:"filingDate,omitempty"`
	CaseCategory          string `json:"caseCategory,omitempty" yaml:"caseCategory,omitempty"`
	Department            string `json:"department,omitempty" yaml:"department,omitempty"`
	CaseStage             string `json:"caseStage,omitempty" yaml:"caseStage,omitempty"`
	MonitoringStatus      string `json:"monitoringStatus,omitempty" yaml:"monitoringStatus,omitempty"`
}

type ColorCases struct {
	Color        string        `json:"color" yaml:"color"`
	RussianColor string        `json:"russianColor" yaml:"russianColor"`
	Count        int           `json:"count" yaml:"count"`
	Cases        []CaseSummary `json:"cases" yaml:"cases"`
	Message      string        `json:"message" yaml:"message"`
}

// Kind selects lawsuit or court-order production.
type Kind string

const (
	Lawsuit Kind = "lawsuit"
	Order   Kind = "order"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Lawsuit, Order:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown production kind %q (expected lawsuit or order)", s)
}

type StageRow struct {
	CaseCode         string `json:"caseCode" yaml:"caseCode"`
	CaseStage        string `json:"caseStage" yaml:"caseStage"`
	MonitoringStatus string `json:"monitoringStatus" yaml:"monitoringStatus"`
}

type TermsAnalysis struct {
	TotalCases int        `json:"totalCases" yaml:"totalCases"`
	Data       []StageRow `json:"data" yaml:"data"`
	Message    string     `json:"message" yaml:"message"`
}

// ChartGroup is one check (or document type) with its counts in the order
// timely, overdue, upcoming, no data. The exception check instead carries
// reopened, complaint filed, error/duplicate, withdrawn.
type ChartGroup struct {
	GroupName string `json:"group_name" yaml:"group_name"`
	Values    []int  `json:"values" yaml:"values"`
}

type ChartData struct {
	Data           []ChartGroup `json:"data" yaml:"data"`
	TotalCases     int          `json:"totalCases,omitempty" yaml:"totalCases,omitempty"`
	TotalDocuments int          `json:"totalDocuments,omitempty" yaml:"totalDocuments,omitempty"`
	Message        string       `json:"message" yaml:"message"`
}

type FilteredCases struct {
	Stage  string        `json:"stage" yaml:"stage"`
	Status string        `json:"status" yaml:"status"`
	Count  int           `json:"count" yaml:"count"`
	Cases  []CaseSummary `json:"cases" yaml:"cases"`
}

type DocumentsAnalysis struct {
	Count   int    `json:"count" yaml:"count"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Message string `json:"message" yaml:"message"`
}

type DocumentList struct {
	Count        int      `json:"count" yaml:"count"`
	Status       string   `json:"status" yaml:"status"`
	DocumentType string   `json:"documentType" yaml:"documentType"`
	Documents    []Record `json:"documents" yaml:"documents"`
}

type DocumentStatuses struct {
	TotalDocuments     int            `json:"totalDocuments" yaml:"totalDocuments"`
	StatusDistribution map[string]int `json:"statusDistribution" yaml:"statusDistribution"`
	Message            string         `json:"message" yaml:"message"`
}

type DocumentDetail struct {
	CaseCode     string `json:"caseCode" yaml:"caseCode"`
	DocumentType string `json:"documentType" yaml:"documentType"`
	Department   string `json:"department" yaml:"department"`
	Document     Record `json:"document" yaml:"document"`
	Message      string `json:"message" yaml:"message"`
}

type Task struct {
	TaskCode            string `json:"taskCode" yaml:"taskCode"`
	CaseCode            string `json:"caseCode" yaml:"caseCode"`
	SourceType          string `json:"sourceType" yaml:"sourceType"`
	ResponsibleExecutor string `json:"responsibleExecutor" yaml:"responsibleExecutor"`
	CaseStage           string `json:"caseStage" yaml:"caseStage"`
	MonitoringStatus    string `json:"monitoringStatus" yaml:"monitoringStatus"`
	IsCompleted         bool   `json:"isCompleted" yaml:"isCompleted"`
	TaskText            string `json:"taskText" yaml:"taskText"`
}

type TaskCalculation struct {
	TotalTasks    int    `json:"totalTasks" yaml:"totalTasks"`
	FilteredTasks int    `json:"filteredTasks" yaml:"filteredTasks"`
	Executor      string `json:"executor,omitempty" yaml:"executor,omitempty"`
	Data          []Task `json:"data" yaml:"data"`
	Message       string `json:"message" yaml:"message"`
}

type TaskList struct {
	TotalTasks    int    `json:"totalTasks" yaml:"totalTasks"`
	FilteredCount int    `json:"filteredCount" yaml:"filteredCount"`
	Tasks         []Task `json:"tasks" yaml:"tasks"`
	Message       string `json:"message" yaml:"message"`
}

type TaskLookup struct {
	Task    *Task  `json:"task" yaml:"task"`
	Message string `json:"message" yaml:"message"`
}

type TaskDataStatus struct {
	ReportsLoaded bool            `json:"reportsLoaded" yaml:"reportsLoaded"`
	ProcessedData map[string]bool `json:"processedData" yaml:"processedData"`
	TaskCount     int             `json:"taskCount" yaml:"taskCount"`
}

type TaskStatus struct {
	Status  TaskDataStatus `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
}

type TaskSaveResult struct {
	Filename  string `json:"filename" yaml:"filename"`
	Filepath  string `json:"filepath" yaml:"filepath"`
	TaskCount int    `json:"taskCount" yaml:"taskCount"`
	Message   string `json:"message" yaml:"message"`
}

type CaseField struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

// CaseGroups is the display order of case detail field groups.
var CaseGroups = []string{"general", "court", "financial", "dates", "other"}

type CaseDetail struct {
	CaseCode      string                 `json:"caseCode" yaml:"caseCode"`
	Data          Record                 `json:"data" yaml:"data"`
	FieldGroups   map[string][]CaseField `json:"fieldGroups" yaml:"fieldGroups"`
	TotalFields   int                    `json:"totalFields" yaml:"totalFields"`
	FoundInColumn string                 `json:"foundInColumn" yaml:"foundInColumn"`
}

type AnonymizeLoadResult struct {
	Message              string          `json:"message" yaml:"message"`
	Filename             string          `json:"filename" yaml:"filename"`
	ReportType           string          `json:"report_type" yaml:"report_type"`
	Rows                 int             `json:"rows" yaml:"rows"`
	Columns              int             `json:"columns" yaml:"columns"`
	ColumnsInfo          json.RawMessage `json:"columns_info,omitempty" yaml:"-"`
	ApplicableRules      json.RawMessage `json:"applicable_rules,omitempty" yaml:"-"`
	ApplicableRulesCount int             `json:"applicable_rules_count" yaml:"applicable_rules_count"`
	TotalRulesInConfig   int             `json:"total_rules_in_config" yaml:"total_rules_in_config"`
}

type AnonymizeResult struct {
	Message           string          `json:"message" yaml:"message"`
	ReportType        string          `json:"report_type" yaml:"report_type"`
	Rows              int             `json:"rows" yaml:"rows"`
	Columns           int             `json:"columns" yaml:"columns"`
	TotalRulesApplied int             `json:"total_rules_applied" yaml:"total_rules_applied"`
	Results           json.RawMessage `json:"anonymization_results,omitempty" yaml:"-"`
}

type AnonymizeRules struct {
	Rules      json.RawMessage `json:"rules" yaml:"-"`
	TotalRules int             `json:"total_rules" yaml:"total_rules"`
	Note       string          `json:"note" yaml:"note"`
}

type AnonymizeClearResult struct {
	Message      string `json:"message" yaml:"message"`
	ClearedCount int    `json:"cleared_count" yaml:"cleared_count"`
}

// ServerStatus is the backend's answer to a ping.
type ServerStatus struct {
	Status  string `json:"status"  yaml:"status"`
	Message string `json:"message" yaml:"message"`
}
