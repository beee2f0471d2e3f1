package analysis

import (
	"context"

	"github.com/legaldesk/casectl/internal/reporting/services"
)

// Step names. They are stable identifiers used in the store and in output.
const (
	StepRainbow        = "rainbow"
	StepLawsuit        = "lawsuit"
	StepLawsuitCharts  = "lawsuitCharts"
	StepOrder          = "order"
	StepOrderCharts    = "orderCharts"
	StepDocuments      = "documents"
	StepDocumentCharts = "documentCharts"
	StepTasks          = "tasks"
)

// StepNames lists the steps of DefaultSteps in order.
var StepNames = []string{
	StepRainbow, StepLawsuit, StepLawsuitCharts, StepOrder,
	StepOrderCharts, StepDocuments, StepDocumentCharts, StepTasks,
}

// Step is one backend analysis call.
type Step struct {
	Name string
	// Endpoint is informational, for progress output and logs.
	Endpoint string
	Run      func(ctx context.Context) (any, error)
}

// DefaultSteps returns the fixed analysis sequence. Later steps rely on
// server state left by earlier ones, so the order matters.
func DefaultSteps(svc *services.Services) []Step {
	return []Step{
		{
			Name:     StepRainbow,
			Endpoint: "/api/rainbow/analyze",
			Run: func(ctx context.Context) (any, error) {
				return svc.Rainbow.Analyze(ctx)
			},
		},
		{
			Name:     StepLawsuit,
			Endpoint: "/api/terms/v2/lawsuit/analyze_lawsuit",
			Run: func(ctx context.Context) (any, error) {
				return svc.Terms.Analyze(ctx, services.Lawsuit)
			},
		},
		{
			Name:     StepLawsuitCharts,
			Endpoint: "/api/terms/v2/lawsuit/analyze_lawsuit_charts",
			Run: func(ctx context.Context) (any, error) {
				return svc.Terms.Charts(ctx, services.Lawsuit)
			},
		},
		{
			Name:     StepOrder,
			Endpoint: "/api/terms/v2/order/analyze_order",
			Run: func(ctx context.Context) (any, error) {
				return svc.Terms.Analyze(ctx, services.Order)
			},
		},
		{
			Name:     StepOrderCharts,
			Endpoint: "/api/terms/v2/order/analyze_order_charts",
			Run: func(ctx context.Context) (any, error) {
				return svc.Terms.Charts(ctx, services.Order)
			},
		},
		{
			Name:     StepDocuments,
			Endpoint: "/api/documents/analyze_documents",
			Run: func(ctx context.Context) (any, error) {
				return svc.Documents.Analyze(ctx)
			},
		},
		{
			Name:     StepDocumentCharts,
			Endpoint: "/api/documents/analyze_document_charts",
			Run: func(ctx context.Context) (any, error) {
				return svc.Documents.Charts(ctx)
			},
		},
		{
			Name:     StepTasks,
			Endpoint: "/api/tasks/calculate",
			Run: func(ctx context.Context) (any, error) {
				return svc.Tasks.Calculate(ctx, "")
			},
		},
	}
}
