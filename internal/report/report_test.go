package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestGenerator() (*Generator, *store.Store, *testClock) {
	clock := &testClock{now: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)}
	st := store.New(store.WithClock(clock.Now))
	return NewGenerator(st), st, clock
}

func TestSummarize(t *testing.T) {
	gen, st, _ := newTestGenerator()

	st.CreateRequest(nil, "IT Support - Software", domain.PriorityHigh, "a", "d")
	r2 := st.CreateRequest(nil, "IT Support - Network", domain.PriorityLow, "b", "d")
	r3 := st.CreateRequest(nil, "HR Services - Payroll", domain.PriorityMedium, "c", "d")
	r4 := st.CreateRequest(nil, "Facilities - Repairs", domain.PriorityLow, "e", "d")
	st.UpdateStatus(r2, domain.StatusInProgress, "Tom")
	st.UpdateStatus(r3, domain.StatusResolved, "Tom")
	st.UpdateStatus(r4, domain.StatusClosed, "Tom")

	assert.Equal(t, Summary{Total: 4, Open: 1, InProgress: 1, Resolved: 1, Closed: 1}, gen.Summarize())
}

func TestByCategorySortedByName(t *testing.T) {
	gen, st, _ := newTestGenerator()
	st.CreateRequest(nil, "IT Support - Software", domain.PriorityHigh, "a", "d")
	st.CreateRequest(nil, "Facilities - Repairs", domain.PriorityLow, "b", "d")
	st.CreateRequest(nil, "IT Support - Software", domain.PriorityLow, "c", "d")

	assert.Equal(t, []CategoryCount{
		{Category: "Facilities - Repairs", Count: 1},
		{Category: "IT Support - Software", Count: 2},
	}, gen.ByCategory())
}

func TestByPrioritySortedByRank(t *testing.T) {
	gen, st, _ := newTestGenerator()
	st.CreateRequest(nil, "IT Support - Software", domain.PriorityLow, "a", "d")
	st.CreateRequest(nil, "IT Support - Software", domain.PriorityCritical, "b", "d")
	st.CreateRequest(nil, "IT Support - Software", domain.PriorityLow, "c", "d")

	assert.Equal(t, []PriorityCount{
		{Priority: domain.PriorityCritical, Count: 1},
		{Priority: domain.PriorityLow, Count: 2},
	}, gen.ByPriority())
}

func TestAverageResolutionTime(t *testing.T) {
	gen, st, clock := newTestGenerator()

	_, ok := gen.AverageResolutionTime()
	assert.False(t, ok, "no resolved requests yet")

	r1 := st.CreateRequest(nil, "IT Support - Software", domain.PriorityHigh, "a", "d")
	r2 := st.CreateRequest(nil, "IT Support - Network", domain.PriorityLow, "b", "d")
	st.CreateRequest(nil, "HR Services - Payroll", domain.PriorityMedium, "c", "d")

	clock.now = clock.now.Add(30 * time.Minute)
	st.UpdateStatus(r1, domain.StatusResolved, "Tom")
	clock.now = clock.now.Add(60 * time.Minute)
	st.UpdateStatus(r2, domain.StatusClosed, "Tom")

	avg, ok := gen.AverageResolutionTime()
	assert.True(t, ok)
	assert.Equal(t, time.Minute*60, avg, "average of 30m and 90m")
}
