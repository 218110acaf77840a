// Package report aggregates read-only statistics over the store's query API.
package report

import (
	"sort"
	"time"

	"github.com/spec-kit/service-desk/internal/domain"
	"github.com/spec-kit/service-desk/internal/store"
)

// Summary holds counts by status.
type Summary struct {
	Total      int
	Open       int
	InProgress int
	Resolved   int
	Closed     int
}

// CategoryCount pairs a category with its request count.
type CategoryCount struct {
	Category string
	Count    int
}

// PriorityCount pairs a priority with its request count.
type PriorityCount struct {
	Priority domain.RequestPriority
	Count    int
}

// Generator computes reports from the store.
type Generator struct {
	store *store.Store
}

// NewGenerator instantiates a report generator.
func NewGenerator(st *store.Store) *Generator {
	return &Generator{store: st}
}

// Summarize counts requests per status.
func (g *Generator) Summarize() Summary {
	var s Summary
	for _, r := range g.store.ListAll() {
		s.Total++
		switch r.Status {
		case domain.StatusOpen:
			s.Open++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusResolved:
			s.Resolved++
		case domain.StatusClosed:
			s.Closed++
		}
	}
	return s
}

// ByCategory counts requests per category, sorted by category name.
func (g *Generator) ByCategory() []CategoryCount {
	counts := map[string]int{}
	for _, r := range g.store.ListAll() {
		counts[r.Category]++
	}
	result := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result
}

// ByPriority counts requests per priority, sorted from most to least urgent.
func (g *Generator) ByPriority() []PriorityCount {
	counts := map[domain.RequestPriority]int{}
	for _, r := range g.store.ListAll() {
		counts[r.Priority]++
	}
	result := make([]PriorityCount, 0, len(counts))
	for priority, count := range counts {
		result = append(result, PriorityCount{Priority: priority, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Priority.Rank() < result[j].Priority.Rank() })
	return result
}

// AverageResolutionTime averages created-to-resolved durations over requests
// that carry a resolved date. The second return is false when none do.
func (g *Generator) AverageResolutionTime() (time.Duration, bool) {
	var total time.Duration
	var count int
	for _, r := range g.store.ListAll() {
		if r.ResolvedDate == nil {
			continue
		}
		total += r.ResolvedDate.Sub(r.CreatedDate)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return total / time.Duration(count), true
}
