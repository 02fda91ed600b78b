package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/rodbv/authkit"
)

func TestIsWithinThresholdPeriod(t *testing.T) {
	within, err := auth.IsWithinThresholdPeriod(time.Now().Add(-time.Hour), "24h")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = auth.IsWithinThresholdPeriod(time.Now().Add(-25*time.Hour), "24h")
	require.NoError(t, err)
	assert.False(t, within)
}

func TestIsOutsideThresholdPeriod(t *testing.T) {
	outside, err := auth.IsOutsideThresholdPeriod(time.Now().Add(-25*time.Hour), "24h")
	require.NoError(t, err)
	assert.True(t, outside)

	outside, err = auth.IsOutsideThresholdPeriod(time.Now(), "24h")
	require.NoError(t, err)
	assert.False(t, outside)
}

func TestThresholdPeriodBadPattern(t *testing.T) {
	_, err := auth.IsWithinThresholdPeriod(time.Now(), "not-a-duration")
	assert.Error(t, err)
}
