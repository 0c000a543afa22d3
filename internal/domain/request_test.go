package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisRequest(t *testing.T) {
	t.Run("defaults thresholds", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"id":"req-1","lat":37.77,"lon":-122.42,"month":7,"day":4}`)}
		req, err := ParseAnalysisRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, "req-1", req.ID)
		assert.Equal(t, DefaultThresholds(), req.Thresholds)
		require.NoError(t, req.Validate())
	})

	t.Run("partial thresholds keep defaults", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"lat":1,"lon":2,"month":1,"day":1,"thresholds":{"hot_threshold_c":35}}`)}
		req, err := ParseAnalysisRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, Thresholds{HotC: 35, ColdC: 10, RainMM: 5}, req.Thresholds)
	})

	t.Run("id from key", func(t *testing.T) {
		raw := RawEvent{Key: []byte("key-9"), Value: []byte(`{"lat":1,"lon":2,"month":1,"day":1}`)}
		req, err := ParseAnalysisRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, "key-9", req.ID)
	})

	t.Run("generated id", func(t *testing.T) {
		req, err := ParseAnalysisRequest(RawEvent{Value: []byte(`{"lat":1,"lon":2,"month":1,"day":1}`)})
		require.NoError(t, err)
		_, err = uuid.Parse(req.ID)
		assert.NoError(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseAnalysisRequest(RawEvent{Value: []byte("not json")})
		assert.Error(t, err)
	})
}

func TestAnalysisRequest_Validate(t *testing.T) {
	base := AnalysisRequest{Lat: 10, Lon: 10, Month: 3, Day: 15, Thresholds: DefaultThresholds()}
	require.NoError(t, base.Validate())

	badLat := base
	badLat.Lat = 91
	require.ErrorIs(t, badLat.Validate(), ErrDataUnavailable)

	badDay := base
	badDay.Month, badDay.Day = 2, 30
	require.ErrorIs(t, badDay.Validate(), ErrDataUnavailable)

	badThreshold := base
	badThreshold.Thresholds.RainMM = 50
	require.ErrorIs(t, badThreshold.Validate(), ErrInvalidThreshold)
}

func TestNewResponse(t *testing.T) {
	freezeClock(t, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC))
	req := AnalysisRequest{ID: "req-1", Lat: 1, Lon: 2, Month: 5, Day: 5, Thresholds: DefaultThresholds()}

	t.Run("ok", func(t *testing.T) {
		result := AnalysisResult{SampleSize: 30, Probabilities: map[Condition]float64{VeryHot: 0.4}}
		resp := NewResponse(req, result, nil)
		assert.Equal(t, StatusOK, resp.Status)
		require.NotNil(t, resp.Result)
		assert.Equal(t, RiskHigh, resp.Risks[VeryHot])
		assert.Empty(t, resp.Error)
	})

	t.Run("failed", func(t *testing.T) {
		resp := NewResponse(req, AnalysisResult{}, fmt.Errorf("fetch: %w", ErrDataUnavailable))
		assert.Equal(t, StatusFailed, resp.Status)
		assert.Equal(t, CodeDataUnavailable, resp.Error)
		assert.Nil(t, resp.Result)
	})

	t.Run("serialize", func(t *testing.T) {
		resp := NewResponse(req, AnalysisResult{SampleSize: 2, Probabilities: map[Condition]float64{VeryWet: 0.5}}, nil)
		out, err := SerializeResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, []byte("req-1"), out.Key)
		assert.Equal(t, StatusOK, out.Headers["status"])
		assert.Equal(t, "2026-10-18T09:30:00Z", out.Headers["completed_at"])

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Value, &decoded))
		assert.Equal(t, "req-1", decoded["request_id"])
		assert.Equal(t, map[string]any{"very_wet": "High"}, decoded["risks"])
	})
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptySample, CodeEmptySample},
		{fmt.Errorf("wrap: %w", ErrInsufficientTrendData), CodeInsufficientTrendData},
		{fmt.Errorf("wrap: %w", ErrInvalidThreshold), CodeInvalidThreshold},
		{ErrLocationNotFound, CodeLocationNotFound},
		{ErrTargetTooSoon, CodeTargetTooSoon},
		{fmt.Errorf("bad body: %w", ErrInvalidRequest), CodeInvalidRequest},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err), "%v", tt.err)
	}
}
