package services

import "context"

type RainbowService struct{ base }

// Analyze returns case counts per rainbow color in the fixed color order.
func (s *RainbowService) Analyze(ctx context.Context) (RainbowAnalysis, error) {
	var out RainbowAnalysis
	err := s.api.GetJSON(withOperation(ctx, "rainbow.analyze"), "/api/rainbow/analyze", nil, &out)
	return out, err
}

// CasesByColor lists the cases of one color. color is a Russian name or an
// English code (ik, gray, green, ...).
func (s *RainbowService) CasesByColor(ctx context.Context, color string) (ColorCases, error) {
	var out ColorCases
	q := struct {
		Color string `form:"color"`
	}{Color: color}
	err := s.api.GetJSON(withOperation(ctx, "rainbow.cases"), "/api/rainbow/cases-by-color", q, &out)
	return out, err
}
