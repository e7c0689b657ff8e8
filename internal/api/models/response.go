package models

import (
	"solar-treasury/internal/analysis"
	"solar-treasury/internal/model"
)

// HistoryResponse wraps the full NAV history.
type HistoryResponse struct {
	Count  int                 `json:"count"`
	Epochs []model.EpochRecord `json:"epochs"`
}

// SummaryResponse wraps the run summary.
type SummaryResponse struct {
	Summary analysis.Summary `json:"summary"`
}

// RankResponse wraps risk-tolerance rankings.
type RankResponse struct {
	Rankings []analysis.RiskRanking `json:"rankings"`
}

// StatusResponse is a generic acknowledgment.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
