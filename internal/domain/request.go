package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRequest asks for the odds of adverse weather on one calendar day at
// one coordinate.
type AnalysisRequest struct {
	ID         string     `json:"id,omitempty"`
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	Month      int        `json:"month"`
	Day        int        `json:"day"`
	Thresholds Thresholds `json:"thresholds"`
}

// Coordinate returns the request position.
func (r AnalysisRequest) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lon: r.Lon}
}

// Validate checks the coordinate, calendar day and thresholds.
func (r AnalysisRequest) Validate() error {
	if err := r.Coordinate().Validate(); err != nil {
		return err
	}
	if err := ValidateCalendarDay(r.Month, r.Day); err != nil {
		return err
	}
	return r.Thresholds.Validate()
}

// Response statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// AnalysisResponse is the envelope published for each processed request.
type AnalysisResponse struct {
	RequestID   string             `json:"request_id"`
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Message     string             `json:"message,omitempty"`
	Request     AnalysisRequest    `json:"request"`
	Result      *AnalysisResult    `json:"result,omitempty"`
	Risks       map[Condition]Risk `json:"risks,omitempty"`
	CompletedAt time.Time          `json:"completed_at"`
}

// NewResponse builds the envelope for a finished request. A non-nil err
// produces a failed response carrying its error code.
func NewResponse(req AnalysisRequest, result AnalysisResult, err error) AnalysisResponse {
	resp := AnalysisResponse{
		RequestID:   req.ID,
		Request:     req,
		CompletedAt: Now().UTC(),
	}
	if err != nil {
		resp.Status = StatusFailed
		resp.Error = ErrorCode(err)
		resp.Message = err.Error()
		return resp
	}
	resp.Status = StatusOK
	resp.Result = &result
	resp.Risks = result.Risks()
	return resp
}

// ParseAnalysisRequest decodes a request message. Missing thresholds take
// their defaults. A request without an id inherits the message key, or a
// fresh UUID when the key is empty too.
func ParseAnalysisRequest(raw RawEvent) (AnalysisRequest, error) {
	req := AnalysisRequest{Thresholds: DefaultThresholds()}
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return AnalysisRequest{}, fmt.Errorf("unmarshal analysis request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req, nil
}

// SerializeResponse marshals a response into an output message keyed by
// request id.
func SerializeResponse(resp AnalysisResponse) (OutputEvent, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("marshal analysis response: %w", err)
	}
	return OutputEvent{
		Key:   []byte(resp.RequestID),
		Value: data,
		Headers: map[string]string{
			"status":       resp.Status,
			"completed_at": resp.CompletedAt.Format(time.RFC3339),
		},
	}, nil
}
