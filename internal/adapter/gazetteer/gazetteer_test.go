package gazetteer

import (
	"context"
	"slices"
	"testing"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"San Francisco", "San Francisco, CA"},
		{"  san   FRANCISCO ", "San Francisco, CA"},
		{"Tokyo, Japan", "Tokyo, Japan"},
		{"NYC", "New York, NY"},
		{"la", "Los Angeles, CA"},
	}
	g := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := g.Resolve(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.DisplayName)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, name := range []string{"Atlanta", "Springfield, IL", ""} {
		_, err := New().Resolve(context.Background(), name)
		assert.ErrorIs(t, err, domain.ErrLocationNotFound, name)
	}
}

func TestNames(t *testing.T) {
	assert.Contains(t, Names(), "Tokyo, Japan")
	assert.True(t, slices.IsSorted(Names()))
	assert.Len(t, Names(), len(builtin))
}
