package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/parade-odds/internal/analysis"
	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/report"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// oddsQuery is the validated form of GET /api/v1/odds parameters.
type oddsQuery struct {
	Location string `validate:"required,max=200"`
	Date     string `validate:"required,datetime=2006-01-02"`
}

// riskQuery is the validated form of GET /api/v1/risk parameters.
type riskQuery struct {
	P float64 `validate:"gte=0,lte=1"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OddsResponse pairs the raw analysis with its display summary.
type OddsResponse struct {
	analysis.Odds
	Risks   map[domain.Condition]domain.Risk `json:"risks"`
	Summary report.Summary                   `json:"summary"`
}

// RiskResponse classifies a single probability.
type RiskResponse struct {
	Probability float64     `json:"probability"`
	Risk        domain.Risk `json:"risk"`
	Label       string      `json:"label"`
	Formatted   string      `json:"formatted"`
}

// CompareResponse wraps per-location outcomes in request order.
type CompareResponse struct {
	Month    int                `json:"month"`
	Day      int                `json:"day"`
	Outcomes []analysis.Outcome `json:"outcomes"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := domain.AnalysisRequest{Thresholds: domain.DefaultThresholds()}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	result, err := s.svc.Analyze(analysis.WithSource(r.Context(), analysis.SourceHTTP), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewResponse(req, result, nil))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req := analysis.CompareRequest{Thresholds: domain.DefaultThresholds()}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	outcomes, err := s.svc.Compare(analysis.WithSource(r.Context(), analysis.SourceHTTP), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Month: req.Month, Day: req.Day, Outcomes: outcomes})
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	oq := oddsQuery{Location: q.Get("location"), Date: q.Get("date")}
	if err := validate.Struct(oq); err != nil {
		s.writeError(w, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, describe(err)))
		return
	}
	date, err := time.Parse(time.DateOnly, oq.Date)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: date: %w", domain.ErrInvalidRequest, err))
		return
	}
	thresholds, err := parseThresholds(q)
	if err != nil {
		s.writeError(w, err)
		return
	}

	odds, err := s.svc.Odds(analysis.WithSource(r.Context(), analysis.SourceHTTP), analysis.OddsRequest{
		Location:   oq.Location,
		Date:       date,
		Thresholds: thresholds,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OddsResponse{
		Odds:  odds,
		Risks: odds.Result.Risks(),
		Summary: report.Summarize(report.Report{
			Location:   odds.Place.DisplayName,
			Date:       date,
			Thresholds: thresholds,
			Result:     odds.Result,
		}),
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	p, err := strconv.ParseFloat(r.URL.Query().Get("p"), 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: p must be a number", domain.ErrInvalidRequest))
		return
	}
	if err := validate.Struct(riskQuery{P: p}); err != nil {
		s.writeError(w, fmt.Errorf("%w: p must be between 0 and 1", domain.ErrInvalidRequest))
		return
	}
	writeJSON(w, http.StatusOK, RiskResponse{
		Probability: p,
		Risk:        domain.Classify(p),
		Label:       report.RiskLabel(p),
		Formatted:   report.FormatProbability(p),
	})
}

// parseThresholds reads optional hot, cold and rain overrides on top of the
// defaults.
func parseThresholds(q url.Values) (domain.Thresholds, error) {
	t := domain.DefaultThresholds()
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"hot", &t.HotC},
		{"cold", &t.ColdC},
		{"rain", &t.RainMM},
	} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Thresholds{}, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidThreshold, f.name)
		}
		*f.dst = v
	}
	return t, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %w", domain.ErrInvalidRequest, err)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}

// statusFor maps an error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case domain.CodeInvalidRequest:
		return http.StatusBadRequest
	case domain.CodeLocationNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidThreshold, domain.CodeTargetTooSoon,
		domain.CodeEmptySample, domain.CodeInsufficientTrendData:
		return http.StatusUnprocessableEntity
	case domain.CodeDataUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have disconnected
}
