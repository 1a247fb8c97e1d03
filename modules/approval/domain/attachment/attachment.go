package attachment

import (
	"context"
	"fmt"
	"strings"
)

// Ref is a reference to a stored file. The locator is where the bytes live
// and is the only identity that matters: two refs with equal locators are
// the same attachment, whatever their display name or size says.
type Ref struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	Locator   string `json:"locator"`
}

// Equal compares refs by locator only.
func (r Ref) Equal(other Ref) bool {
	return r.Locator == other.Locator
}

// RawFile carries not-yet-persisted upload bytes.
type RawFile struct {
	Name string
	Data []byte
}

// PersistFunc stores raw file bytes and returns the resulting reference.
// Storage is a collaborator concern; this package performs no I/O itself.
type PersistFunc func(ctx context.Context, file RawFile) (Ref, error)

// ConflictError reports an attachment present in both the kept and the
// deleted lists. A stale kept list must never resurrect a deleted file, so
// the submission is rejected instead of silently resolved.
type ConflictError struct {
	Locators []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("attachments appear in both kept and deleted lists: %s", strings.Join(e.Locators, ", "))
}

// Reconcile merges the kept refs with freshly persisted files into the final
// attachment set. Duplicate locators collapse to their first occurrence, so
// resubmitting the same list is idempotent. The deleted list is informational
// for the diff; it only participates here as a consistency check against the
// kept list.
func Reconcile(
	ctx context.Context,
	kept []Ref,
	added []RawFile,
	deleted []Ref,
	persist PersistFunc,
) ([]Ref, error) {
	deletedSet := make(map[string]struct{}, len(deleted))
	for _, ref := range deleted {
		deletedSet[ref.Locator] = struct{}{}
	}

	var conflicts []string
	for _, ref := range kept {
		if _, ok := deletedSet[ref.Locator]; ok {
			conflicts = append(conflicts, ref.Locator)
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Locators: conflicts}
	}

	seen := make(map[string]struct{}, len(kept)+len(added))
	final := make([]Ref, 0, len(kept)+len(added))
	for _, ref := range kept {
		if _, ok := seen[ref.Locator]; ok {
			continue
		}
		seen[ref.Locator] = struct{}{}
		final = append(final, ref)
	}

	for _, file := range added {
		if persist == nil {
			return nil, fmt.Errorf("no persist callback provided for %q", file.Name)
		}
		ref, err := persist(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("persist %q: %w", file.Name, err)
		}
		if _, ok := seen[ref.Locator]; ok {
			continue
		}
		seen[ref.Locator] = struct{}{}
		final = append(final, ref)
	}

	return final, nil
}

// SameSet reports whether two locator sets are equal, ignoring order,
// duplicates and display attributes.
func SameSet(a, b []Ref) bool {
	return locatorSet(a).equal(locatorSet(b))
}

type stringSet map[string]struct{}

func (s stringSet) equal(other stringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

func locatorSet(refs []Ref) stringSet {
	set := make(stringSet, len(refs))
	for _, ref := range refs {
		set[ref.Locator] = struct{}{}
	}
	return set
}

// FromAny converts loosely typed snapshot values (maps decoded from JSON)
// into refs. An empty list is a valid empty collection; FromAny returns
// false only when the value does not look like an attachment collection.
func FromAny(value any) ([]Ref, bool) {
	switch v := value.(type) {
	case []Ref:
		return v, true
	case []any:
		refs := make([]Ref, 0, len(v))
		for _, item := range v {
			ref, ok := refFromAny(item)
			if !ok {
				return nil, false
			}
			refs = append(refs, ref)
		}
		return refs, true
	default:
		return nil, false
	}
}

func refFromAny(value any) (Ref, bool) {
	switch v := value.(type) {
	case Ref:
		return v, true
	case map[string]any:
		locator, ok := v["locator"].(string)
		if !ok || locator == "" {
			return Ref{}, false
		}
		ref := Ref{Locator: locator}
		if name, ok := v["name"].(string); ok {
			ref.Name = name
		}
		switch size := v["sizeBytes"].(type) {
		case float64:
			ref.SizeBytes = int64(size)
		case int64:
			ref.SizeBytes = size
		case int:
			ref.SizeBytes = int64(size)
		}
		return ref, true
	default:
		return Ref{}, false
	}
}
