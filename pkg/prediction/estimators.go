package prediction

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Estimate is one model's opinion: a daily consumption rate and how much the
// model trusts it.
type Estimate struct {
	DailyRate  float64
	Confidence float64
}

// estimatorEnv carries the per-request context estimators need. Seed makes
// the sampling-based variants reproducible; two runs over the same ledger
// state produce identical output.
type estimatorEnv struct {
	Now               time.Time
	RecipeUseCount30d int64
	Seed              int64
}

// An estimator reports (estimate, true) or (zero, false) when its minimum
// data requirement is not met or a denominator would be zero.
type estimatorFunc func(item ItemSnapshot, events []UsageEvent, env estimatorEnv) (Estimate, bool)

// estimatorOrder fixes the iteration order so ensemble output is stable.
var estimatorOrder = []string{
	"linear_trend",
	"seasonal",
	"recipe_based",
	"bootstrap",
	"evolutionary",
}

var estimators = map[string]estimatorFunc{
	"linear_trend": linearTrendEstimate,
	"seasonal":     seasonalEstimate,
	"recipe_based": recipeBasedEstimate,
	"bootstrap":    bootstrapEstimate,
	"evolutionary": evolutionaryEstimate,
}

// linearTrendEstimate fits a least-squares line over daily consumption
// totals. The rate is the series mean; confidence is the bounded R^2 of the
// fit. A constant series fits itself exactly, so zero total variance reports
// R^2 = 1 rather than degenerating to zero.
func linearTrendEstimate(item ItemSnapshot, events []UsageEvent, _ estimatorEnv) (Estimate, bool) {
	if len(events) < 7 {
		return Estimate{}, false
	}

	dates, values := dailyTotals(events)
	if len(values) < 3 {
		return Estimate{}, false
	}

	xs := make([]float64, len(dates))
	for i, d := range dates {
		xs[i] = d.Sub(dates[0]).Hours() / 24
	}

	n := float64(len(xs))
	var xMean, yMean float64
	for i := range xs {
		xMean += xs[i]
		yMean += values[i]
	}
	xMean /= n
	yMean /= n

	var sxx, sxy float64
	for i := range xs {
		sxx += (xs[i] - xMean) * (xs[i] - xMean)
		sxy += (xs[i] - xMean) * (values[i] - yMean)
	}
	if sxx == 0 {
		return Estimate{}, false
	}
	slope := sxy / sxx
	intercept := yMean - slope*xMean

	var ssRes, ssTot float64
	for i := range xs {
		pred := slope*xs[i] + intercept
		ssRes += (values[i] - pred) * (values[i] - pred)
		ssTot += (values[i] - yMean) * (values[i] - yMean)
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return Estimate{
		DailyRate:  math.Max(0.1, yMean),
		Confidence: math.Min(0.9, math.Max(0.1, r2)),
	}, true
}

// seasonalEstimate scales the overall mean by how the current month and
// weekday historically compare to it. Needs substantial history.
func seasonalEstimate(item ItemSnapshot, events []UsageEvent, env estimatorEnv) (Estimate, bool) {
	if len(events) < 30 {
		return Estimate{}, false
	}

	var overall float64
	monthSums := map[time.Month]float64{}
	monthCounts := map[time.Month]int{}
	weekdaySums := map[time.Weekday]float64{}
	weekdayCounts := map[time.Weekday]int{}

	for _, e := range events {
		overall += e.QuantityUsed
		monthSums[e.Month] += e.QuantityUsed
		monthCounts[e.Month]++
		weekdaySums[e.Weekday] += e.QuantityUsed
		weekdayCounts[e.Weekday]++
	}
	overall /= float64(len(events))
	if overall <= 0 {
		return Estimate{}, false
	}

	monthFactor := 1.0
	if c := monthCounts[env.Now.Month()]; c > 0 {
		monthFactor = (monthSums[env.Now.Month()] / float64(c)) / overall
	}
	weekdayFactor := 1.0
	if c := weekdayCounts[env.Now.Weekday()]; c > 0 {
		weekdayFactor = (weekdaySums[env.Now.Weekday()] / float64(c)) / overall
	}

	return Estimate{
		DailyRate:  overall * monthFactor * weekdayFactor,
		Confidence: math.Min(0.8, float64(len(events))/100),
	}, true
}

// recipeBasedEstimate works only on recipe-tagged consumption: average
// quantity per cooking event times estimated cooking sessions per day. The
// session count assumes five ingredients drawn per recipe on average.
func recipeBasedEstimate(item ItemSnapshot, events []UsageEvent, env estimatorEnv) (Estimate, bool) {
	recipeQuantities := map[string][]float64{}
	var recipeEvents int
	for _, e := range events {
		if e.RecipeID == "" {
			continue
		}
		recipeEvents++
		recipeQuantities[e.RecipeID] = append(recipeQuantities[e.RecipeID], e.QuantityUsed)
	}
	if recipeEvents < 5 || len(recipeQuantities) == 0 {
		return Estimate{}, false
	}

	recipeIDs := make([]string, 0, len(recipeQuantities))
	for id := range recipeQuantities {
		recipeIDs = append(recipeIDs, id)
	}
	sort.Strings(recipeIDs)

	// Summing in sorted order keeps the float result stable across calls.
	var perRecipeSum float64
	for _, id := range recipeIDs {
		quantities := recipeQuantities[id]
		var sum float64
		for _, q := range quantities {
			sum += q
		}
		perRecipeSum += sum / float64(len(quantities))
	}
	avgPerCook := perRecipeSum / float64(len(recipeQuantities))

	sessions := math.Max(1, float64(env.RecipeUseCount30d)/5)
	sessionsPerDay := sessions / 30
	if sessionsPerDay <= 0 {
		return Estimate{}, false
	}

	return Estimate{
		DailyRate:  avgPerCook * sessionsPerDay,
		Confidence: math.Min(0.9, float64(recipeEvents)/20),
	}, true
}

// bootstrapEstimate resamples the daily totals with a seeded generator and
// averages the sample means. Spread across resamples drives the confidence:
// tight resamples mean a stable rate.
func bootstrapEstimate(item ItemSnapshot, events []UsageEvent, env estimatorEnv) (Estimate, bool) {
	if len(events) < 7 {
		return Estimate{}, false
	}
	_, values := dailyTotals(events)
	if len(values) < 3 {
		return Estimate{}, false
	}

	rng := rand.New(rand.NewSource(deriveSeed(env.Seed, item.ID, "bootstrap")))

	const resamples = 50
	means := make([]float64, resamples)
	for i := 0; i < resamples; i++ {
		var sum float64
		for j := 0; j < len(values); j++ {
			sum += values[rng.Intn(len(values))]
		}
		means[i] = sum / float64(len(values))
	}

	var mean float64
	for _, m := range means {
		mean += m
	}
	mean /= resamples
	if mean <= 0 {
		return Estimate{}, false
	}

	var variance float64
	for _, m := range means {
		variance += (m - mean) * (m - mean)
	}
	variance /= resamples
	cv := math.Sqrt(variance) / mean

	return Estimate{
		DailyRate:  mean,
		Confidence: math.Min(0.7, math.Max(0.1, 1/(1+cv)*0.5)),
	}, true
}

// evolutionaryEstimate searches for the rate minimising squared error against
// the daily totals, mutating a small candidate population over a fixed number
// of generations. Seeded, so the search path never varies between calls.
func evolutionaryEstimate(item ItemSnapshot, events []UsageEvent, env estimatorEnv) (Estimate, bool) {
	if len(events) < 7 {
		return Estimate{}, false
	}
	_, values := dailyTotals(events)
	if len(values) < 3 {
		return Estimate{}, false
	}

	var observedMean float64
	for _, v := range values {
		observedMean += v
	}
	observedMean /= float64(len(values))
	if observedMean <= 0 {
		return Estimate{}, false
	}

	rng := rand.New(rand.NewSource(deriveSeed(env.Seed, item.ID, "evolutionary")))

	const (
		populationSize = 20
		generations    = 15
	)

	fitness := func(rate float64) float64 {
		var sse float64
		for _, v := range values {
			sse += (v - rate) * (v - rate)
		}
		return sse
	}

	population := make([]float64, populationSize)
	for i := range population {
		population[i] = observedMean * (0.5 + rng.Float64())
	}

	for g := 0; g < generations; g++ {
		best, bestScore := population[0], fitness(population[0])
		for _, candidate := range population[1:] {
			if score := fitness(candidate); score < bestScore {
				best, bestScore = candidate, score
			}
		}
		// Next generation mutates around the survivor.
		population[0] = best
		for i := 1; i < populationSize; i++ {
			mutated := best + rng.NormFloat64()*observedMean*0.1
			if mutated < 0 {
				mutated = 0
			}
			population[i] = mutated
		}
	}

	best, bestScore := population[0], fitness(population[0])
	for _, candidate := range population[1:] {
		if score := fitness(candidate); score < bestScore {
			best, bestScore = candidate, score
		}
	}
	if best <= 0 {
		return Estimate{}, false
	}

	return Estimate{
		DailyRate:  best,
		Confidence: math.Min(0.6, float64(len(events))/50),
	}, true
}

// deriveSeed mixes the configured base seed with the item identity and the
// estimator label so each item gets its own reproducible stream.
func deriveSeed(base int64, itemID, label string) int64 {
	h := fnv.New64a()
	h.Write([]byte(itemID))
	h.Write([]byte(label))
	return base ^ int64(h.Sum64())
}
