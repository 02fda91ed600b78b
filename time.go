package auth

import "time"

// IsWithinThresholdPeriod checks if the given time is within the
// threshold described by a duration pattern such as "24h".
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	duration, err := time.ParseDuration(pattern)
	if err != nil {
		return false, err
	}

	threshold := time.Now().Add(-duration)
	return t.After(threshold), nil
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod.
func IsOutsideThresholdPeriod(t time.Time, pattern string) (bool, error) {
	within, err := IsWithinThresholdPeriod(t, pattern)
	if err != nil {
		return false, err
	}

	return !within, nil
}
