package auth

import (
	githubprovider "github.com/waabox/plugforge/internal/provider/github"
)

// DeviceCodeResponse holds the initial response from a device authorization request.
// It contains the code to show the user and the parameters needed for polling.
type DeviceCodeResponse struct {
	DeviceCode      string
	UserCode        string
	VerificationURI string
	ExpiresIn       int // seconds until the device code expires
	Interval        int // minimum polling interval in seconds
}

// PollStatus tags the outcome of a single device-flow poll.
type PollStatus string

const (
	// PollGranted means the user authorized the device and a token was issued.
	PollGranted PollStatus = "granted"
	// PollPending means the user has not finished authorizing; poll again after the interval.
	PollPending PollStatus = "pending"
	// PollSlowDown means the caller polls too fast and must increase its interval.
	PollSlowDown PollStatus = "slow_down"
)

// PollResult is the outcome of one device-flow poll. Terminal provider errors
// are returned as errors, never as a PollResult.
type PollResult struct {
	Status PollStatus
	// User and Token are only set when Status is PollGranted.
	User  githubprovider.User
	Token string
}

// Retryable reports whether the caller should poll again.
func (r PollResult) Retryable() bool {
	return r.Status == PollPending || r.Status == PollSlowDown
}
