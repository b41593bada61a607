package report

import (
	"fmt"
	"slices"

	apperrors "formatterhub/internal/errors"
	"formatterhub/pkg/contracts/domain"
)

// Group is a maximal run of rows sharing one key, with the aggregates
// computed over those rows.
type Group struct {
	Key        domain.GroupKey
	Rows       []domain.Record
	Aggregates domain.Aggregates
}

// GroupSpec names the columns GroupTable partitions and sorts on.
// SortColumns, when set, must start with GroupColumns.
type GroupSpec struct {
	GroupColumns []string
	// SortColumns defaults to GroupColumns.
	SortColumns []string
	Aggregates  []Aggregate
}

// GroupTable stable-sorts t by the sort columns, splits it into contiguous
// groups of equal group keys and aggregates each group. Rows with equal
// sort keys keep their input order. An empty table yields no groups.
func GroupTable(t domain.Table, spec GroupSpec) ([]Group, error) {
	sortCols := spec.SortColumns
	if len(sortCols) == 0 {
		sortCols = spec.GroupColumns
	}
	// Groups are only contiguous when the sort starts with the group key.
	if len(sortCols) < len(spec.GroupColumns) || !slices.Equal(sortCols[:len(spec.GroupColumns)], spec.GroupColumns) {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("sort columns %v must start with group columns %v", sortCols, spec.GroupColumns), nil)
	}

	keyIdx, err := columnIndexes(t, spec.GroupColumns)
	if err != nil {
		return nil, err
	}
	sortIdx, err := columnIndexes(t, sortCols)
	if err != nil {
		return nil, err
	}
	eval, err := newEvaluator(t, spec.Aggregates)
	if err != nil {
		return nil, err
	}

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ra, rb := t.Rows[a], t.Rows[b]
		for _, idx := range sortIdx {
			if c := domain.Compare(ra[idx], rb[idx]); c != 0 {
				return c
			}
		}
		return 0
	})

	var groups []Group
	for start := 0; start < len(order); {
		key := keyOf(t.Rows[order[start]], keyIdx)
		end := start + 1
		for end < len(order) && key.Equal(keyOf(t.Rows[order[end]], keyIdx)) {
			end++
		}

		rows := make([]domain.Record, 0, end-start)
		for _, i := range order[start:end] {
			rows = append(rows, t.Rows[i])
		}
		groups = append(groups, Group{
			Key:        key,
			Rows:       rows,
			Aggregates: eval.evaluate(rows),
		})
		start = end
	}
	return groups, nil
}

func keyOf(row domain.Record, idx []int) domain.GroupKey {
	key := make(domain.GroupKey, len(idx))
	for i, j := range idx {
		key[i] = row[j]
	}
	return key
}

func columnIndexes(t domain.Table, cols []string) ([]int, error) {
	out := make([]int, len(cols))
	for i, col := range cols {
		idx := t.Index(col)
		if idx < 0 {
			return nil, apperrors.NewConfigError(fmt.Sprintf("group column %q not in table", col), nil)
		}
		out[i] = idx
	}
	return out, nil
}
