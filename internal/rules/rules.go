// Package rules provides the grouping-rule registry for the tree splitter.
//
// A rule maps one epoch to a comparable split value: a number, a string,
// or the missing sentinel when the epoch's metadata does not carry the
// rule's field. Rules are pure functions dispatched through an explicit
// registry keyed by a stable identifier; unknown identifiers are a named
// error, never a silent default.
package rules

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/nvandessel/epochtree/internal/constants"
	"github.com/nvandessel/epochtree/internal/models"
)

// Kind discriminates the split value variants.
type Kind int

const (
	// KindMissing groups epochs whose metadata lacks the rule's field.
	KindMissing Kind = iota
	// KindNumber holds a numeric split value, ordered numerically.
	KindNumber
	// KindString holds a string split value, ordered lexicographically.
	KindString
)

// Value is the comparable output of a grouping rule for one epoch.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// String returns the stable display form of the value. Numeric values use
// the shortest representation that round-trips; missing values use the
// sentinel group name.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	default:
		return constants.MissingSplitValue
	}
}

// Less orders values deterministically: numbers first (numeric order),
// then strings (lexicographic), then the missing sentinel.
func (v Value) Less(o Value) bool {
	if v.Kind != o.Kind {
		return kindRank(v.Kind) < kindRank(o.Kind)
	}
	switch v.Kind {
	case KindNumber:
		return v.Num < o.Num
	case KindString:
		return v.Str < o.Str
	default:
		return false
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindString:
		return 1
	default:
		return 2
	}
}

// Missing is the sentinel value for unresolved fields.
func Missing() Value { return Value{Kind: KindMissing} }

// Number wraps a numeric split value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Str wraps a string split value.
func Str(s string) Value { return Value{Kind: KindString, Str: s} }

// Sort orders a slice of values in place using Value.Less.
func Sort(vs []Value) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
}

// KeyFunc maps one epoch to its split value. Implementations must be
// pure: same epoch in, same value out, no mutation.
type KeyFunc func(e *models.Epoch) Value

// Rule pairs a stable identifier with its key function.
type Rule struct {
	ID string
	Fn KeyFunc
}

// Coerce converts an arbitrary metadata value into a split value.
// Unreadable types (maps, slices) count as missing rather than erroring.
func Coerce(raw interface{}, ok bool) Value {
	if !ok || raw == nil {
		return Missing()
	}
	switch v := raw.(type) {
	case string:
		return Str(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case bool:
		return Str(strconv.FormatBool(v))
	default:
		return Missing()
	}
}

// MetaField builds a rule that reads a (possibly dotted) metadata path.
// The rule's identifier is the path itself.
func MetaField(path string) Rule {
	return Rule{
		ID: path,
		Fn: func(e *models.Epoch) Value {
			return Coerce(e.MetaField(path))
		},
	}
}

var (
	regMu    sync.RWMutex
	registry = make(map[string]Rule)
)

// Register adds a named rule to the registry. Re-registering an
// identifier replaces the previous rule.
func Register(r Rule) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[r.ID] = r
}

// Resolve returns the registered rule for id, falling back to a metadata
// field rule when the identifier is not registered. The fallback keeps
// plain field paths usable without prior registration.
func Resolve(id string) (Rule, error) {
	if id == "" {
		return Rule{}, fmt.Errorf("grouping rule identifier is empty")
	}
	regMu.RLock()
	r, ok := registry[id]
	regMu.RUnlock()
	if ok {
		return r, nil
	}
	return MetaField(id), nil
}

// ResolveStrict returns the registered rule for id, erroring on unknown
// identifiers instead of falling back to a field path.
func ResolveStrict(id string) (Rule, error) {
	regMu.RLock()
	r, ok := registry[id]
	regMu.RUnlock()
	if !ok {
		return Rule{}, fmt.Errorf("unknown grouping rule: %q", id)
	}
	return r, nil
}

// ResolveAll resolves an ordered identifier list into rules.
func ResolveAll(ids []string) ([]Rule, error) {
	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		r, err := Resolve(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
