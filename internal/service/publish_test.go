// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/churchsync/internal/airtable"
)

func at(t *testing.T, id, datetime string) *Service {
	t.Helper()
	return newService(t, id, airtable.Fields{FieldDatetime: datetime, FieldOOS: true})
}

func TestPlanWeeklyServicesKeepOrder(t *testing.T) {
	a := at(t, "recA", "2024-01-07T10:00:00Z")
	b := at(t, "recB", "2024-01-14T10:00:00Z")

	pubs := PlanAll(DefaultPublishPolicy(), []*Service{a, b})
	require.Len(t, pubs, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), pubs[0].At.UTC())
	assert.Equal(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), pubs[1].At.UTC())
	assert.True(t, pubs[0].At.Before(pubs[1].At))
	assert.Same(t, a, pubs[0].Service)
}

func TestPlanSpacesCollidingSlots(t *testing.T) {
	policy := PublishPolicy{Lead: 6 * 24 * time.Hour, Spacing: time.Minute}
	morning := at(t, "rec1", "2024-01-07T10:00:00Z")
	sameTime := at(t, "rec2", "2024-01-07T10:00:00Z")
	shortlyAfter := at(t, "rec3", "2024-01-07T10:00:30Z")

	pubs := PlanAll(policy, []*Service{morning, sameTime, shortlyAfter})

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, base, pubs[0].At.UTC())
	assert.Equal(t, base.Add(time.Minute), pubs[1].At.UTC())
	assert.Equal(t, base.Add(2*time.Minute), pubs[2].At.UTC())
}

func TestPlanFirstHasNoPredecessor(t *testing.T) {
	s := at(t, "rec1", "2024-01-07T10:00:00Z")
	p := Plan(PublishPolicy{Lead: time.Hour}, nil, s)
	assert.Equal(t, time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC), p.At.UTC())
}

func TestPlanZeroSpacingUsesDefault(t *testing.T) {
	s := at(t, "rec1", "2024-01-07T10:00:00Z")
	prev := Publication{At: time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)}
	p := Plan(PublishPolicy{}, &prev, s)
	assert.Equal(t, prev.At.Add(DefaultPublishSpacing), p.At)
}

func TestPlanCollisionMovesLaterNotEarlier(t *testing.T) {
	policy := PublishPolicy{Lead: time.Hour, Spacing: 5 * time.Minute}
	s := at(t, "rec2", "2024-01-07T10:00:00Z")
	naive := time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC)
	prev := Publication{At: naive.Add(10 * time.Minute)}

	p := Plan(policy, &prev, s)

	assert.Equal(t, prev.At.Add(5*time.Minute), p.At.UTC())
	assert.True(t, p.At.After(naive))
}
