package report

import (
	"fmt"

	apperrors "formatterhub/internal/errors"
	"formatterhub/pkg/contracts/domain"
)

// evaluator computes a fixed list of aggregates over group rows with the
// column positions resolved once.
type evaluator struct {
	aggs   []Aggregate
	column []int
	weight []int
}

func newEvaluator(t domain.Table, aggs []Aggregate) (*evaluator, error) {
	e := &evaluator{
		aggs:   aggs,
		column: make([]int, len(aggs)),
		weight: make([]int, len(aggs)),
	}
	for i, agg := range aggs {
		if !agg.Func.Valid() {
			return nil, apperrors.NewConfigError(fmt.Sprintf("aggregate %q: unknown function %q", agg.Field, agg.Func), nil)
		}
		e.column[i], e.weight[i] = -1, -1
		if agg.Column != "" {
			if e.column[i] = t.Index(agg.Column); e.column[i] < 0 {
				return nil, apperrors.NewConfigError(fmt.Sprintf("aggregate column %q not in table", agg.Column), nil)
			}
		}
		if agg.Func == domain.AggregateWeightedSum {
			if e.weight[i] = t.Index(agg.Weight); e.weight[i] < 0 {
				return nil, apperrors.NewConfigError(fmt.Sprintf("weight column %q not in table", agg.Weight), nil)
			}
		}
		if agg.Func != domain.AggregateCount && e.column[i] < 0 {
			return nil, apperrors.NewConfigError(fmt.Sprintf("aggregate %q: %s needs a column", agg.Field, agg.Func), nil)
		}
	}
	return e, nil
}

func (e *evaluator) evaluate(rows []domain.Record) domain.Aggregates {
	out := make(domain.Aggregates, len(e.aggs))
	for i, agg := range e.aggs {
		out[i] = domain.AggregateValue{Field: agg.Field, Value: e.compute(i, rows)}
	}
	return out
}

func (e *evaluator) compute(i int, rows []domain.Record) float64 {
	col, weight := e.column[i], e.weight[i]

	switch e.aggs[i].Func {
	case domain.AggregateCount:
		if col < 0 {
			return float64(len(rows))
		}
		n := 0
		for _, row := range rows {
			if !row[col].IsNull() {
				n++
			}
		}
		return float64(n)

	case domain.AggregateWeightedSum:
		total := 0.0
		for _, row := range rows {
			v, _ := row[col].Number()
			w, _ := row[weight].Number()
			total += v * w
		}
		return total

	default:
		total := 0.0
		for _, row := range rows {
			v, _ := row[col].Number()
			total += v
		}
		return total
	}
}
