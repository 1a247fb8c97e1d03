package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
)

// Snapshot mapping helpers. Snapshots arrive both from API clients and from
// stored change requests, so values may be native Go types or their
// JSON-decoded equivalents.

func String(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func UUID(m map[string]any, key string) (uuid.UUID, error) {
	s := String(m, key)
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("field %q: %w", key, err)
	}
	return id, nil
}

func Int(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func Decimal(m map[string]any, key string) (decimal.Decimal, error) {
	switch v := m[key].(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q: %w", key, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, fmt.Errorf("field %q: unsupported amount type %T", key, v)
	}
}

func Time(m map[string]any, key string) (time.Time, error) {
	switch v := m[key].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %q: %w", key, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("field %q: unsupported time type %T", key, v)
	}
}

func UUIDSlice(m map[string]any, key string) ([]uuid.UUID, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	var raw []any
	switch vv := v.(type) {
	case []any:
		raw = vv
	case []string:
		raw = make([]any, 0, len(vv))
		for _, s := range vv {
			raw = append(raw, s)
		}
	case []uuid.UUID:
		return vv, nil
	default:
		return nil, fmt.Errorf("field %q: unsupported list type %T", key, v)
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q: element %v is not an identifier", key, item)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func Refs(m map[string]any, key string) ([]attachment.Ref, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	refs, ok := attachment.FromAny(v)
	if !ok {
		return nil, fmt.Errorf("field %q: not an attachment list", key)
	}
	return refs, nil
}

func UUIDStrings(ids []uuid.UUID) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func RefsAny(refs []attachment.Ref) []any {
	out := make([]any, 0, len(refs))
	for _, ref := range refs {
		out = append(out, map[string]any{
			"name":      ref.Name,
			"sizeBytes": ref.SizeBytes,
			"locator":   ref.Locator,
		})
	}
	return out
}
