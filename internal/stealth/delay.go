package stealth

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// DelayProfile names a pacing configuration for page visits.
type DelayProfile string

const (
	ProfileCautious   DelayProfile = "cautious"
	ProfileNormal     DelayProfile = "normal"
	ProfileAggressive DelayProfile = "aggressive"
	// ProfileOff disables pacing; used by tests and local fixtures.
	ProfileOff DelayProfile = "off"
)

// ParseDelayProfile validates a profile name. Empty means normal.
func ParseDelayProfile(s string) (DelayProfile, error) {
	switch p := DelayProfile(s); p {
	case "":
		return ProfileNormal, nil
	case ProfileCautious, ProfileNormal, ProfileAggressive, ProfileOff:
		return p, nil
	default:
		return "", fmt.Errorf("unknown delay profile %q", s)
	}
}

// HumanDelay adds randomized pauses between navigation steps.
type HumanDelay struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewHumanDelay creates a delay generator for the given profile.
func NewHumanDelay(profile DelayProfile) *HumanDelay {
	switch profile {
	case ProfileCautious:
		return &HumanDelay{MinDelay: 2 * time.Second, MaxDelay: 5 * time.Second}
	case ProfileAggressive:
		return &HumanDelay{MinDelay: 200 * time.Millisecond, MaxDelay: 800 * time.Millisecond}
	case ProfileOff:
		return &HumanDelay{}
	default: // normal
		return &HumanDelay{MinDelay: 500 * time.Millisecond, MaxDelay: 2 * time.Second}
	}
}

// Wait sleeps for a random request delay.
func (h *HumanDelay) Wait(ctx context.Context) error {
	return sleep(ctx, h.RequestDelay())
}

// Scroll sleeps for the pause between lazy-load scroll steps.
func (h *HumanDelay) Scroll(ctx context.Context) error {
	return sleep(ctx, h.ScrollDelay())
}

// RequestDelay returns a random delay for page requests.
func (h *HumanDelay) RequestDelay() time.Duration {
	return h.randomBetween(h.MinDelay, h.MaxDelay)
}

// ScrollDelay is shorter than a request delay, at most one second.
func (h *HumanDelay) ScrollDelay() time.Duration {
	return min(h.randomBetween(h.MinDelay/2, h.MaxDelay/2), time.Second)
}

func (h *HumanDelay) randomBetween(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
