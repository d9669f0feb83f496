// pldb is an in-memory relational database of ground facts that exposes
// stored tuples to the engine as goals.
//
// Relations are defined with a name, arity, and optional column indexes.
// The Database is a persistent data structure using copy-on-write semantics:
// adding or removing a fact returns a new Database and leaves the old one
// untouched, so a database can be shared read-only across concurrent
// searches.
//
// Example usage:
//
//	parent, _ := DbRel("parent", 2, 0, 1)  // Index both columns
//	db := NewDatabase()
//	db, _ = db.AddFact(parent, "alice", "bob")
//	db, _ = db.AddFact(parent, "bob", "charlie")
//
//	// Query: who are alice's children?
//	goal := db.Query(parent, "alice", Fresh("child"))

package minikanren

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Relation represents a named relation with a fixed arity and indexed columns.
// Relations are immutable after creation.
type Relation struct {
	name    string
	arity   int
	indexes map[int]bool // set of indexed column positions (0-based)
}

// DbRel creates a new relation with the given name, arity, and optional indexed columns.
// Column indexes are 0-based. Indexing a column enables O(1) lookups for queries
// with ground terms in that position.
//
// Returns an error if arity is <= 0 or if any index is out of range.
func DbRel(name string, arity int, indexedCols ...int) (*Relation, error) {
	if arity <= 0 {
		return nil, fmt.Errorf("pldb: relation arity must be positive, got %d", arity)
	}
	if name == "" {
		return nil, fmt.Errorf("pldb: relation name cannot be empty")
	}

	indexes := make(map[int]bool)
	for _, col := range indexedCols {
		if col < 0 || col >= arity {
			return nil, fmt.Errorf("pldb: index column %d out of range for arity %d", col, arity)
		}
		indexes[col] = true
	}

	return &Relation{
		name:    name,
		arity:   arity,
		indexes: indexes,
	}, nil
}

// Name returns the relation's name.
func (r *Relation) Name() string {
	return r.name
}

// Arity returns the relation's arity (number of columns).
func (r *Relation) Arity() int {
	return r.arity
}

// IsIndexed returns true if the given column is indexed.
func (r *Relation) IsIndexed(col int) bool {
	return r.indexes[col]
}

// key identifies the relation's facts in a Database. Relations sharing a
// name but not an arity are distinct, as in name/arity notation.
func (r *Relation) key() string {
	return fmt.Sprintf("%s/%d", r.name, r.arity)
}

// Fact represents a single row in a relation.
// Facts are ground and immutable.
type Fact struct {
	terms Tuple
	key   string
}

// newFact creates a fact from ground terms, computing its key for deduplication.
func newFact(values []any) (*Fact, error) {
	terms := make(Tuple, len(values))
	for i, v := range values {
		terms[i] = TermOf(v)
		if !isGround(terms[i]) {
			return nil, fmt.Errorf("pldb: fact term at position %d is not ground: %v", i, terms[i])
		}
	}
	return &Fact{terms: terms, key: Key(terms)}, nil
}

// Terms returns the fact's columns.
func (f *Fact) Terms() []Term {
	return f.terms
}

// factIndex maps a column value key to the ids of facts holding that value.
type factIndex struct {
	index map[string][]int
}

func newFactIndex() *factIndex {
	return &factIndex{index: make(map[string][]int)}
}

// add inserts a fact ID into the index for a given term.
// Id slices may be shared with older database versions, so they are never
// appended to in place.
func (fi *factIndex) add(term Term, factID int) {
	k := Key(term)
	fi.index[k] = append(slices.Clip(fi.index[k]), factID)
}

// lookup returns all fact IDs matching the given term.
func (fi *factIndex) lookup(term Term) []int {
	return fi.index[Key(term)]
}

// clone creates a shallow copy of the index for copy-on-write.
func (fi *factIndex) clone() *factIndex {
	newIndex := make(map[string][]int, len(fi.index))
	for k, v := range fi.index {
		newIndex[k] = v
	}
	return &factIndex{index: newIndex}
}

// relationData holds the facts and indexes for a single relation.
type relationData struct {
	facts      []*Fact
	indexes    map[int]*factIndex // column -> index
	factSet    map[string]bool    // deduplication via fact key
	tombstones map[int]bool       // deleted fact IDs (for COW removal)
}

func newRelationData(rel *Relation) *relationData {
	indexes := make(map[int]*factIndex)
	for col := range rel.indexes {
		indexes[col] = newFactIndex()
	}
	return &relationData{
		indexes:    indexes,
		factSet:    make(map[string]bool),
		tombstones: make(map[int]bool),
	}
}

// clone creates a shallow copy for copy-on-write.
// Facts are immutable and can be shared. Only mutable metadata is copied.
func (rd *relationData) clone() *relationData {
	newIndexes := make(map[int]*factIndex, len(rd.indexes))
	for col, idx := range rd.indexes {
		newIndexes[col] = idx.clone()
	}
	newFactSet := make(map[string]bool, len(rd.factSet))
	for k, v := range rd.factSet {
		newFactSet[k] = v
	}
	newTombstones := make(map[int]bool, len(rd.tombstones))
	for k, v := range rd.tombstones {
		newTombstones[k] = v
	}
	return &relationData{
		facts:      slices.Clone(rd.facts),
		indexes:    newIndexes,
		factSet:    newFactSet,
		tombstones: newTombstones,
	}
}

// Database is an immutable collection of relations and their facts.
// Operations return new Database instances with copy-on-write semantics.
type Database struct {
	relations map[string]*relationData
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{relations: make(map[string]*relationData)}
}

// with returns a copy of db in which rel's data is private to the copy.
func (db *Database) with(rel *Relation) (*Database, *relationData) {
	newDB := &Database{relations: make(map[string]*relationData, len(db.relations)+1)}
	for key, rd := range db.relations {
		newDB.relations[key] = rd // share unchanged relations
	}
	rd, exists := db.relations[rel.key()]
	if exists {
		rd = rd.clone()
	} else {
		rd = newRelationData(rel)
	}
	newDB.relations[rel.key()] = rd
	return newDB, rd
}

// AddFact adds a ground fact to the relation, returning a new Database.
// Facts are deduplicated; adding the same fact twice is idempotent.
// Plain Go values are converted with TermOf.
//
// Returns an error if:
//   - The relation is nil
//   - The number of terms doesn't match the relation's arity
//   - Any term is not ground (contains variables)
func (db *Database) AddFact(rel *Relation, terms ...any) (*Database, error) {
	if rel == nil {
		return nil, fmt.Errorf("pldb: relation cannot be nil")
	}
	if len(terms) != rel.arity {
		return nil, fmt.Errorf("pldb: relation %s expects %d terms, got %d", rel.name, rel.arity, len(terms))
	}

	fact, err := newFact(terms)
	if err != nil {
		return nil, err
	}

	if rd, ok := db.relations[rel.key()]; ok && rd.factSet[fact.key] {
		return db, nil // fact already exists
	}

	newDB, rd := db.with(rel)
	factID := len(rd.facts)
	rd.facts = append(rd.facts, fact)
	rd.factSet[fact.key] = true
	for col, idx := range rd.indexes {
		idx.add(fact.terms[col], factID)
	}
	return newDB, nil
}

// RemoveFact removes a fact from the relation, returning a new Database.
// If the fact doesn't exist, returns the database unchanged.
//
// Uses tombstone marking for O(1) removal with stable fact IDs.
// Indexes remain valid as fact positions don't change.
func (db *Database) RemoveFact(rel *Relation, terms ...any) (*Database, error) {
	if rel == nil {
		return nil, fmt.Errorf("pldb: relation cannot be nil")
	}
	if len(terms) != rel.arity {
		return nil, fmt.Errorf("pldb: relation %s expects %d terms, got %d", rel.name, rel.arity, len(terms))
	}

	fact, err := newFact(terms)
	if err != nil {
		return nil, err
	}

	rd, exists := db.relations[rel.key()]
	if !exists || !rd.factSet[fact.key] {
		return db, nil
	}

	newDB, newRd := db.with(rel)
	for i, f := range newRd.facts {
		if !newRd.tombstones[i] && f.key == fact.key {
			newRd.tombstones[i] = true
			delete(newRd.factSet, fact.key)
			break
		}
	}
	return newDB, nil
}

// FactCount returns the number of non-deleted facts in the given relation.
func (db *Database) FactCount(rel *Relation) int {
	if rel == nil {
		return 0
	}
	rd, exists := db.relations[rel.key()]
	if !exists {
		return 0
	}
	return len(rd.facts) - len(rd.tombstones)
}

// Contains reports whether the relation holds the given ground fact.
func (db *Database) Contains(rel *Relation, terms ...any) bool {
	if rel == nil || len(terms) != rel.arity {
		return false
	}
	rd, exists := db.relations[rel.key()]
	if !exists {
		return false
	}
	fact, err := newFact(terms)
	if err != nil {
		return false
	}
	return rd.factSet[fact.key]
}

// AllFacts returns all non-deleted facts for a relation in insertion order.
// Returns nil if the relation has no facts.
func (db *Database) AllFacts(rel *Relation) [][]Term {
	if rel == nil {
		return nil
	}
	rd, exists := db.relations[rel.key()]
	if !exists {
		return nil
	}

	result := make([][]Term, 0, len(rd.facts))
	for i, f := range rd.facts {
		if !rd.tombstones[i] {
			result = append(result, f.terms)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// Query returns a Goal that unifies the given pattern with every matching
// fact, yielding one substitution per fact in insertion order. The pattern
// is walked against the substitution at evaluation time, so columns bound
// by earlier goals can use an index.
//
// Query uses index selection heuristics:
//   - If any term is ground and indexed, use that index for O(1) lookup
//   - Otherwise, scan all facts (O(n))
//   - Repeated variables are checked for consistency by unification
//
// Example:
//
//	// Find all of alice's children
//	goal := db.Query(parent, "alice", Fresh("child"))
//
//	// Find self-loops (repeated variable)
//	x := Fresh("x")
//	goal := db.Query(edge, x, x)
func (db *Database) Query(rel *Relation, pattern ...any) Goal {
	if rel == nil || len(pattern) != rel.arity {
		return Fail
	}
	pat := NewTuple(pattern...)

	return func(ctx context.Context, s *Substitution) *Stream {
		rd, exists := db.relations[rel.key()]
		if !exists {
			return Empty()
		}

		walked := s.DeepWalk(pat).(Tuple)
		facts := selectFacts(rd, rel, walked)
		i := 0
		return NewStream(func() (*Substitution, error) {
			for i < len(facts) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				f := facts[i]
				i++
				if next, ok := Unify(walked, f.terms, s); ok {
					return next, nil
				}
			}
			return nil, nil
		})
	}
}

// selectFacts chooses facts to scan based on index availability and pattern.
// Skips tombstoned (deleted) facts.
func selectFacts(rd *relationData, rel *Relation, pattern Tuple) []*Fact {
	for col, term := range pattern {
		if !isGround(term) || !rel.IsIndexed(col) {
			continue
		}
		if idx, exists := rd.indexes[col]; exists {
			ids := idx.lookup(term)
			facts := make([]*Fact, 0, len(ids))
			for _, id := range ids {
				if !rd.tombstones[id] {
					facts = append(facts, rd.facts[id])
				}
			}
			return facts
		}
	}

	facts := make([]*Fact, 0, len(rd.facts))
	for i, f := range rd.facts {
		if !rd.tombstones[i] {
			facts = append(facts, f)
		}
	}
	return facts
}

// String summarises the database contents.
func (db *Database) String() string {
	keys := make([]string, 0, len(db.relations))
	for key := range db.relations {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		rd := db.relations[key]
		parts[i] = fmt.Sprintf("%s=%d", key, len(rd.facts)-len(rd.tombstones))
	}
	return "Database{" + strings.Join(parts, ", ") + "}"
}
