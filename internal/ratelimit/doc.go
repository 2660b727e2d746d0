// Package ratelimit computes the polite inter-request delays used between
// downloads and retry attempts.
//
// Platforms rate-limit aggressively, so the limiter clamps the operator's base
// delay into a fixed admissible range and adds bounded jitter to avoid
// lock-step request timing. The jittered result never exceeds the hard
// ceiling.
package ratelimit
