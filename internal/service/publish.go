// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package service

import "time"

const (
	DefaultPublishLead    = 6 * 24 * time.Hour
	DefaultPublishSpacing = time.Minute
)

// PublishPolicy controls when order-of-service posts go live.
type PublishPolicy struct {
	// Lead is how long before the service start the post is published.
	Lead time.Duration
	// Spacing separates a post from its predecessor when their slots collide.
	Spacing time.Duration
}

// DefaultPublishPolicy publishes six days ahead, one minute apart on collision.
func DefaultPublishPolicy() PublishPolicy {
	return PublishPolicy{Lead: DefaultPublishLead, Spacing: DefaultPublishSpacing}
}

// Publication is one planned post.
type Publication struct {
	Service *Service
	At      time.Time
}

// Plan returns the publication for s given the previous one in ascending
// start order (nil for the first). Callers fold over sorted services:
//
//	var prev *Publication
//	for _, s := range sorted {
//		p := Plan(policy, prev, s)
//		prev = &p
//	}
//
// Publish order always follows start order. On a collision the post moves
// later, to Spacing after its predecessor, never earlier than its naive slot.
func Plan(policy PublishPolicy, prev *Publication, s *Service) Publication {
	if policy.Spacing <= 0 {
		policy.Spacing = DefaultPublishSpacing
	}
	at := s.Start().Add(-policy.Lead)
	if prev != nil && !prev.At.Before(at) {
		at = prev.At.Add(policy.Spacing)
	}
	return Publication{Service: s, At: at}
}

// PlanAll folds Plan over services, which must already be sorted by start.
func PlanAll(policy PublishPolicy, services []*Service) []Publication {
	out := make([]Publication, 0, len(services))
	var prev *Publication
	for _, s := range services {
		p := Plan(policy, prev, s)
		out = append(out, p)
		prev = &out[len(out)-1]
	}
	return out
}
