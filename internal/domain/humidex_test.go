package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumidex(t *testing.T) {
	assert.InDelta(t, 33.969, Humidex(30, 15), 1e-3)
	assert.InDelta(t, 32.570, Humidex(25, 20), 1e-3)
	assert.Greater(t, Humidex(30, 25), Humidex(30, 10))
}
