package prediction

import (
	"sort"
	"time"

	"github.com/zy538324/homegrubhub-backend/entities"
)

// ItemSnapshot is the read-only view of a pantry item the pipeline works on.
// Estimators never touch persistence; they see a snapshot and its events.
type ItemSnapshot struct {
	ID              string
	Name            string
	Category        string
	CurrentQuantity float64
	Unit            string
	MinimumQuantity float64
	IdealQuantity   float64
	ExpiryDate      *time.Time
	CostPerUnit     *float64
}

// UsageEvent is one consumption event from the ledger, annotated with the
// calendar features the estimators bucket on.
type UsageEvent struct {
	Date         time.Time
	QuantityUsed float64
	Reason       string
	RecipeID     string
	Weekday      time.Weekday
	Month        time.Month
	ISOWeek      int
}

func snapshotFromEntity(item *entities.PantryItem) ItemSnapshot {
	snap := ItemSnapshot{
		ID:              item.ID.String(),
		Name:            item.Name,
		CurrentQuantity: item.CurrentQuantity,
		Unit:            item.Unit,
		MinimumQuantity: item.MinimumQuantity,
		IdealQuantity:   item.IdealQuantity,
		ExpiryDate:      item.ExpiryDate,
		CostPerUnit:     item.CostPerUnit,
	}
	if item.Category != nil {
		snap.Category = item.Category.Name
	}
	return snap
}

// eventsFromLogs keeps consumption rows only (negative deltas) and annotates
// them. Input order is preserved; the repository returns newest first.
func eventsFromLogs(logs []*entities.PantryUsageLog) []UsageEvent {
	events := make([]UsageEvent, 0, len(logs))
	for _, log := range logs {
		if log.QuantityChange >= 0 {
			continue
		}
		_, week := log.Timestamp.ISOWeek()
		event := UsageEvent{
			Date:         today(log.Timestamp),
			QuantityUsed: -log.QuantityChange,
			Reason:       log.Reason,
			Weekday:      log.Timestamp.Weekday(),
			Month:        log.Timestamp.Month(),
			ISOWeek:      week,
		}
		if log.RecipeID != nil {
			event.RecipeID = log.RecipeID.String()
		}
		events = append(events, event)
	}
	return events
}

// dailyTotals aggregates events into per-day consumption, ordered oldest
// first. Estimators that fit over time use this series.
func dailyTotals(events []UsageEvent) ([]time.Time, []float64) {
	totals := make(map[time.Time]float64, len(events))
	for _, e := range events {
		totals[e.Date] += e.QuantityUsed
	}

	dates := make([]time.Time, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = totals[d]
	}
	return dates, values
}
