package domain

import "fmt"

// InvalidParameterError reports a non-positive distance or a load factor outside (0,1]
type InvalidParameterError struct {
	Param string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.Param, e.Value)
}

// DegenerateLoadError reports that floor(seats * loadFactor) is zero
type DegenerateLoadError struct {
	Seats      int
	LoadFactor float64
}

func (e *DegenerateLoadError) Error() string {
	return fmt.Sprintf("load factor %v on %d seats leaves no passengers", e.LoadFactor, e.Seats)
}

// UnknownTimeframeError reports a timeframe key outside the known buckets
type UnknownTimeframeError struct {
	Key string
}

func (e *UnknownTimeframeError) Error() string {
	return fmt.Sprintf("unknown timeframe %q (must be today, thisWeek, thisMonth or thisYear)", e.Key)
}

// InvalidInputError reports missing or unusable route geometry input
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
