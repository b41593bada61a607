package report

import (
	"math"
	"slices"

	"formatterhub/internal/dataprocessing"
	apperrors "formatterhub/internal/errors"
	"formatterhub/pkg/contracts/domain"
)

// Normalize coerces a raw upload into the schema described by spec. The
// steps run in this order:
//
//  1. trim header names
//  2. rename alias columns whose canonical name is absent
//  3. fail with *errors.SchemaError on the first missing required column
//  4. coerce currency columns to floats
//  5. coerce numeric columns to integers
//  6. derive absent columns from their factors
//  7. materialize still-absent currency and numeric columns as zeros
//  8. fill blank cells (and absent columns) with their default label
//  9. project onto OutputColumns
//
// Malformed numbers never fail; they become zero. raw is not modified.
func Normalize(raw domain.Table, spec NormalizeSpec) (domain.Table, error) {
	t := raw.Clone()

	for i, col := range t.Columns {
		t.Columns[i] = dataprocessing.CleanHeader(col)
	}

	resolveAliases(&t, spec.Aliases)

	for _, col := range spec.RequiredColumns {
		if !t.Has(col) {
			return domain.Table{}, apperrors.NewSchemaError(col, t.Columns)
		}
	}

	for _, col := range spec.CurrencyColumns {
		if idx := t.Index(col); idx >= 0 {
			for _, row := range t.Rows {
				row[idx] = domain.Float(currencyOf(row[idx], spec.RoundCurrency))
			}
		}
	}

	for _, col := range spec.NumericColumns {
		if idx := t.Index(col); idx >= 0 {
			for _, row := range t.Rows {
				row[idx] = domain.Int(integerOf(row[idx]))
			}
		}
	}

	for _, d := range spec.Derived {
		if t.Has(d.Column) {
			continue
		}
		factors := make([]int, len(d.Factors))
		for i, f := range d.Factors {
			factors[i] = t.Index(f)
		}
		round := spec.RoundCurrency && slices.Contains(spec.CurrencyColumns, d.Column)
		t.AddColumn(d.Column, func(row domain.Record) domain.Value {
			product := 1.0
			for _, idx := range factors {
				if idx < 0 {
					return domain.Float(0)
				}
				n, _ := row[idx].Number()
				product *= n
			}
			if round {
				product = dataprocessing.RoundCents(product)
			}
			return domain.Float(product)
		})
	}

	for _, col := range spec.CurrencyColumns {
		if !t.Has(col) {
			t.AddColumn(col, func(domain.Record) domain.Value { return domain.Float(0) })
		}
	}
	for _, col := range spec.NumericColumns {
		if !t.Has(col) {
			t.AddColumn(col, func(domain.Record) domain.Value { return domain.Int(0) })
		}
	}

	for _, col := range sortedKeys(spec.FillDefaults) {
		label := domain.String(spec.FillDefaults[col])
		idx := t.Index(col)
		if idx < 0 {
			t.AddColumn(col, func(domain.Record) domain.Value { return label })
			continue
		}
		for _, row := range t.Rows {
			if row[idx].IsBlank() {
				row[idx] = label
			}
		}
	}

	if len(spec.OutputColumns) > 0 {
		t = t.Project(spec.OutputColumns)
	}
	return t, nil
}

// resolveAliases renames alias columns in sorted alias order so that when
// two aliases map to one canonical name the result does not depend on
// map iteration.
func resolveAliases(t *domain.Table, aliases map[string]string) {
	for _, alias := range sortedKeys(aliases) {
		canonical := aliases[alias]
		if idx := t.Index(alias); idx >= 0 && !t.Has(canonical) {
			t.Columns[idx] = canonical
		}
	}
}

func currencyOf(v domain.Value, round bool) float64 {
	var f float64
	if n, ok := v.Number(); ok {
		f = n
	} else if v.Kind == domain.KindString {
		f = dataprocessing.ParseCurrency(v.Str)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	if round {
		f = dataprocessing.RoundCents(f)
	}
	return f
}

func integerOf(v domain.Value) int64 {
	switch v.Kind {
	case domain.KindInt:
		return v.Int
	case domain.KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) || math.Abs(v.Float) >= math.MaxInt64 {
			return 0
		}
		return int64(v.Float)
	case domain.KindString:
		return dataprocessing.ParseInteger(v.Str)
	}
	return 0
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
