package diff

import (
	"reflect"
	"time"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
)

// ChangeSet computes the sparse set of fields whose proposed value differs
// from the original. Only keys present in proposed are considered — those
// are the fields the caller deemed relevant. A key missing from original
// counts as changed. Pure function; never touches persistence.
func ChangeSet(original, proposed map[string]any) map[string]any {
	out := make(map[string]any)
	for key, proposedValue := range proposed {
		originalValue, exists := original[key]
		if !exists || !Equal(originalValue, proposedValue) {
			out[key] = proposedValue
		}
	}
	return out
}

// Merge overlays a change-set onto a full snapshot, returning a new map.
// The snapshot is taken fresh at application time so unrelated concurrent
// edits to other fields survive.
func Merge(current, changes map[string]any) map[string]any {
	merged := make(map[string]any, len(current)+len(changes))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range changes {
		merged[k] = v
	}
	return merged
}

// Equal applies shape-aware equality:
//   - timestamps compare by normalized instant, not representation
//   - attachment collections compare as locator sets
//   - arrays of scalar identifiers compare as order-insensitive sets
//   - nested objects compare by their id field when both carry one
//   - scalars compare strictly; "10" and 10 are different on purpose, a
//     type drift between snapshot producers must surface as a visible diff
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if at, aok := asInstant(a); aok {
		if bt, bok := asInstant(b); bok {
			return at.Equal(bt)
		}
	}

	if aRefs, aok := attachment.FromAny(a); aok {
		if bRefs, bok := attachment.FromAny(b); bok {
			return attachment.SameSet(aRefs, bRefs)
		}
	}

	if aList, aok := asScalarList(a); aok {
		if bList, bok := asScalarList(b); bok {
			return sameScalarSet(aList, bList)
		}
	}

	if aMap, aok := a.(map[string]any); aok {
		if bMap, bok := b.(map[string]any); bok {
			aID, aHas := aMap["id"]
			bID, bHas := bMap["id"]
			if aHas && bHas {
				return Equal(aID, bID)
			}
			return reflect.DeepEqual(aMap, bMap)
		}
	}

	if af, aok := asNumber(a); aok {
		if bf, bok := asNumber(b); bok {
			return af == bf
		}
		return false
	}

	return reflect.DeepEqual(a, b)
}

func asInstant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func isScalar(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool:
		return true
	}
	_, numeric := asNumber(v)
	return numeric
}

func asScalarList(v any) ([]any, bool) {
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		items = make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
	default:
		return nil, false
	}
	for _, item := range items {
		if !isScalar(item) {
			return nil, false
		}
	}
	return items, true
}

// sameScalarSet treats identifier arrays as sets: ordering and duplicates
// do not make a reportable difference.
func sameScalarSet(a, b []any) bool {
	aSet := make(map[any]struct{}, len(a))
	for _, item := range a {
		aSet[normalizeScalar(item)] = struct{}{}
	}
	bSet := make(map[any]struct{}, len(b))
	for _, item := range b {
		bSet[normalizeScalar(item)] = struct{}{}
	}
	if len(aSet) != len(bSet) {
		return false
	}
	for item := range aSet {
		if _, ok := bSet[item]; !ok {
			return false
		}
	}
	return true
}

// normalizeScalar folds numeric kinds together so that the int 7 decoded in
// one snapshot and the float64 7 decoded in another land on the same set
// member. Strings stay strings: "10" never folds into 10.
func normalizeScalar(v any) any {
	if n, ok := asNumber(v); ok {
		return n
	}
	return v
}
