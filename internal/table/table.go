package table

import (
	"fmt"
	"sort"
	"strings"
)

// keySep joins key parts. The unit separator cannot appear in workbook
// identifiers, so composite keys never collide across part boundaries.
const keySep = "\x1f"

// Key joins key parts into a composite row key.
func Key(parts ...string) string {
	return strings.Join(parts, keySep)
}

// Row is implemented by every table row type. Key returns the composite
// primary key of the row; it must be unique within the table.
type Row interface {
	Key() string
}

// Table is an ordered collection of rows with a unique composite key, a
// dependency class and the column bindings the class requires. Rows are
// value types; cloning a table copies every row.
type Table[R Row] struct {
	name  string
	class Class

	scenarioOf func(R) string
	rpOf       func(R) string
	kOf        func(R) string
	withK      func(R, string) R

	rows  []R
	index map[string]int
}

// Option configures column bindings at registration time.
type Option[R Row] func(*Table[R])

// WithScenario binds the scenario column accessor. Required for every
// scenario-dependent class.
func WithScenario[R Row](get func(R) string) Option[R] {
	return func(t *Table[R]) { t.scenarioOf = get }
}

// WithRP binds the representative-period column accessor. Required for
// rp-keyed classes.
func WithRP[R Row](get func(R) string) Option[R] {
	return func(t *Table[R]) { t.rpOf = get }
}

// WithK binds the timestep column accessor and rewriter. Required for
// k-keyed classes; the rewriter supports timestep shifting.
func WithK[R Row](get func(R) string, set func(R, string) R) Option[R] {
	return func(t *Table[R]) {
		t.kOf = get
		t.withK = set
	}
}

// New creates an empty table and checks the column bindings against the
// declared class. A class that depends on a dimension without a binding for
// it (or the other way round) is a registration error.
func New[R Row](name string, class Class, opts ...Option[R]) (*Table[R], error) {
	t := &Table[R]{
		name:  name,
		class: class,
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(t)
	}

	if class.DependsOnScenario() && t.scenarioOf == nil {
		return nil, fmt.Errorf("table %s: class %s requires a scenario binding", name, class)
	}
	if !class.DependsOnScenario() && t.scenarioOf != nil {
		return nil, fmt.Errorf("table %s: class %s must not bind a scenario column", name, class)
	}
	if class.DependsOnRP() && t.rpOf == nil {
		return nil, fmt.Errorf("table %s: class %s requires an rp binding", name, class)
	}
	if !class.DependsOnRP() && t.rpOf != nil {
		return nil, fmt.Errorf("table %s: class %s must not bind an rp column", name, class)
	}
	if class.DependsOnK() && (t.kOf == nil || t.withK == nil) {
		return nil, fmt.Errorf("table %s: class %s requires a k binding", name, class)
	}
	if !class.DependsOnK() && t.kOf != nil {
		return nil, fmt.Errorf("table %s: class %s must not bind a k column", name, class)
	}
	return t, nil
}

// MustNew is like New but panics on a registration error. Table definitions
// are static, so a failure here is a programming error.
func MustNew[R Row](name string, class Class, opts ...Option[R]) *Table[R] {
	t, err := New(name, class, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the registered table name.
func (t *Table[R]) Name() string { return t.name }

// Class returns the dependency class assigned at registration.
func (t *Table[R]) Class() Class { return t.class }

// Len returns the number of rows.
func (t *Table[R]) Len() int { return len(t.rows) }

// Rows returns the backing row slice in table order. Callers must treat it
// as read-only; mutations go through Append, Replace, Filter or Update.
func (t *Table[R]) Rows() []R { return t.rows }

// Get returns the row with the given composite key.
func (t *Table[R]) Get(key string) (R, bool) {
	if i, ok := t.index[key]; ok {
		return t.rows[i], true
	}
	var zero R
	return zero, false
}

// Has reports whether a row with the given key exists.
func (t *Table[R]) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Append adds rows, rejecting duplicate composite keys.
func (t *Table[R]) Append(rows ...R) error {
	for _, r := range rows {
		key := r.Key()
		if _, exists := t.index[key]; exists {
			return fmt.Errorf("table %s: duplicate key %q", t.name, strings.ReplaceAll(key, keySep, "/"))
		}
		t.index[key] = len(t.rows)
		t.rows = append(t.rows, r)
	}
	return nil
}

// Replace discards all rows and appends the given ones.
func (t *Table[R]) Replace(rows []R) error {
	t.rows = t.rows[:0]
	t.index = make(map[string]int, len(rows))
	return t.Append(rows...)
}

// Update rewrites every row through fn and re-checks key uniqueness. Used by
// re-keying transforms where the rewritten keys may collide.
func (t *Table[R]) Update(fn func(R) R) error {
	rewritten := make([]R, len(t.rows))
	for i, r := range t.rows {
		rewritten[i] = fn(r)
	}
	return t.Replace(rewritten)
}

// Filter keeps only rows for which keep returns true.
func (t *Table[R]) Filter(keep func(R) bool) {
	kept := t.rows[:0]
	for _, r := range t.rows {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	t.rows = kept
	t.reindex()
}

// Sort orders rows by the given comparison.
func (t *Table[R]) Sort(less func(a, b R) bool) {
	sort.SliceStable(t.rows, func(i, j int) bool { return less(t.rows[i], t.rows[j]) })
	t.reindex()
}

// SortByKey orders rows lexicographically by composite key.
func (t *Table[R]) SortByKey() {
	t.Sort(func(a, b R) bool { return a.Key() < b.Key() })
}

// Clone returns a deep copy. Row types hold only value fields, so copying
// the slice copies the data.
func (t *Table[R]) Clone() *Table[R] {
	c := &Table[R]{
		name:       t.name,
		class:      t.class,
		scenarioOf: t.scenarioOf,
		rpOf:       t.rpOf,
		kOf:        t.kOf,
		withK:      t.withK,
		rows:       make([]R, len(t.rows)),
		index:      make(map[string]int, len(t.index)),
	}
	copy(c.rows, t.rows)
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}

func (t *Table[R]) reindex() {
	t.index = make(map[string]int, len(t.rows))
	for i, r := range t.rows {
		t.index[r.Key()] = i
	}
}

// View exposes the class-driven projection operations without the row type,
// so a case study can iterate heterogeneous tables by dependency class.
type View interface {
	Name() string
	Class() Class
	Len() int
	// FilterScenario keeps rows of the named scenario. No-op for
	// non-dependent tables.
	FilterScenario(scenario string)
	// FilterRP keeps rows of the named representative period. No-op for
	// classes without an rp key.
	FilterRP(rp string)
	// FilterKRange keeps rows whose timestep lies in the inclusive
	// lexicographic range. No-op for classes without a k key.
	FilterKRange(start, end string)
	// ShiftKs rotates timestep labels cyclically by shift positions over
	// this table's sorted distinct timesteps, then restores key order.
	// No-op for classes without a k key.
	ShiftKs(shift int)
	// DistinctKs returns the sorted distinct timestep labels.
	DistinctKs() []string
}

// FilterScenario implements View.
func (t *Table[R]) FilterScenario(scenario string) {
	if !t.class.DependsOnScenario() {
		return
	}
	t.Filter(func(r R) bool { return t.scenarioOf(r) == scenario })
}

// FilterRP implements View.
func (t *Table[R]) FilterRP(rp string) {
	if !t.class.DependsOnRP() {
		return
	}
	t.Filter(func(r R) bool { return t.rpOf(r) == rp })
}

// FilterKRange implements View.
func (t *Table[R]) FilterKRange(start, end string) {
	if !t.class.DependsOnK() {
		return
	}
	t.Filter(func(r R) bool {
		k := t.kOf(r)
		return k >= start && k <= end
	})
}

// DistinctKs implements View.
func (t *Table[R]) DistinctKs() []string {
	if !t.class.DependsOnK() {
		return nil
	}
	return Distinct(t.rows, t.kOf)
}

// ShiftKs implements View. The set of (rp, k) pairs is preserved; only the
// row data assigned to each timestep moves.
func (t *Table[R]) ShiftKs(shift int) {
	if !t.class.DependsOnK() || t.Len() == 0 {
		return
	}
	ks := t.DistinctKs()
	n := len(ks)
	pos := make(map[string]int, n)
	for i, k := range ks {
		pos[k] = i
	}
	// Update cannot fail here: the shifted mapping is a bijection on the
	// timestep axis, so rewritten keys stay unique.
	_ = t.Update(func(r R) R {
		i := pos[t.kOf(r)]
		return t.withK(r, ks[((i+shift)%n+n)%n])
	})
	t.SortByKey()
}

// Distinct returns the sorted distinct values of get over rows.
func Distinct[R any](rows []R, get func(R) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		v := get(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// GroupBy partitions rows by the given key, returning group keys in first
// occurrence order alongside the groups.
func GroupBy[R any](rows []R, key func(R) string) ([]string, map[string][]R) {
	groups := make(map[string][]R)
	var order []string
	for _, r := range rows {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return order, groups
}
