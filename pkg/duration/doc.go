// Package duration implements the hours/minutes/seconds selection that a
// countdown is started from.
//
// A Duration is an immutable value. Each edit made through a picker produces
// a new value via WithHour, WithMinute or WithSecond; nothing is mutated in
// place.
//
// # Normalization
//
// Fields are not normalized. Minutes may exceed 59 and seconds may exceed 59;
// all three fields simply contribute to the total:
//
//	total = (Hours*60 + Minutes)*60 + Seconds
//
// # End Instant
//
// EndInstant converts a selection into the absolute instant a countdown runs
// to. It is pure: the caller supplies "now".
package duration
