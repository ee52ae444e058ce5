// Package services contains domain services implementing business logic
// that spans multiple aggregates.
//
// The central service is the Matcher, which computes the candidate
// interpreter pool for an order by applying the TierPolicy: exact matches
// inside the company scope first, a policy-relaxed pool once the first
// tier is exhausted. The matcher is pure; escalation timing lives in the
// search sweep, which uses the same policy for its deadlines.
package services
