// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

// Default listing limits, matching the reporting callers' page sizes.
const (
	DefaultSessionLimit = 100
	DefaultHistoryLimit = 50
)

// ClampLimit normalizes a caller-supplied result limit: non-positive
// values fall back to max, and values above max are capped at max.
//
// Example:
//
//	n := utils.ClampLimit(0, 100)   // returns 100
//	n = utils.ClampLimit(25, 100)   // returns 25
//	n = utils.ClampLimit(500, 100)  // returns 100
func ClampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
