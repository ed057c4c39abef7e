// Package catalog implements an in-memory schema catalog for SQL
// analysis. A Catalog is a node in a tree of name registries holding
// tables, models, connections, named types, functions, table-valued
// functions, procedures, constants and nested catalogs, resolved
// case-insensitively and safe for concurrent use.
package catalog

import (
	"sort"
	"sync"

	"github.com/apecloud/mycatalog/metrics"
	"github.com/apecloud/mycatalog/types"
)

type entry[T any] struct {
	name  string
	value T
	owned bool
}

// store is one per-kind name table. Keys are normalized spellings; the
// entry keeps the declared one.
type store[T any] struct {
	entries map[string]*entry[T]
}

func (s *store[T]) put(name string, v T, owned bool) bool {
	key := normalizeName(name)
	if _, ok := s.entries[key]; ok {
		return false
	}
	if s.entries == nil {
		s.entries = make(map[string]*entry[T])
	}
	s.entries[key] = &entry[T]{name: name, value: v, owned: owned}
	return true
}

func (s *store[T]) get(name string) (*entry[T], bool) {
	e, ok := s.entries[normalizeName(name)]
	return e, ok
}

func (s *store[T]) removeKey(key string) {
	delete(s.entries, key)
}

func (s *store[T]) size() int { return len(s.entries) }

func (s *store[T]) sortedKeys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// names returns the declared spellings ordered by normalized key.
func (s *store[T]) names() []string {
	keys := s.sortedKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.entries[k].name
	}
	return out
}

// values returns the entries ordered by normalized key.
func (s *store[T]) values() []T {
	keys := s.sortedKeys()
	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = s.entries[k].value
	}
	return out
}

func (s *store[T]) reset() map[string]*entry[T] {
	old := s.entries
	s.entries = nil
	return old
}

// Catalog is a single node of the catalog tree. All methods are safe for
// concurrent use. Lock discipline: a catalog only ever holds its own
// lock, never a parent's or child's, so path operations lock one node at
// a time.
type Catalog struct {
	name string

	mu          sync.RWMutex
	tables      store[*Table]
	models      store[*Model]
	connections store[*Connection]
	namedTypes  store[types.Type]
	functions   store[*Function]
	tableFuncs  store[*TableFunction]
	procedures  store[*Procedure]
	constants   store[*Constant]
	catalogs    store[*Catalog]

	// Case-sensitive cache of types materialized from the descriptor
	// pool. Explicit namedTypes entries always win over this cache.
	cachedTypes map[string]types.Type

	pool    *types.DescriptorPool
	factory *types.Factory

	// Sub-catalogs created by LoadBuiltins for namespaced builtins,
	// keyed by normalized namespace. A subset of the catalogs store.
	builtinNamespaces map[string]*Catalog
	builtinOptions    *BuiltinOptions

	closed bool
}

func New(name string) *Catalog {
	return &Catalog{
		name:              name,
		cachedTypes:       make(map[string]types.Type),
		builtinNamespaces: make(map[string]*Catalog),
		factory:           types.NewFactory(),
	}
}

// Name implements Object.
func (c *Catalog) Name() string { return c.name }

// Kind implements Object.
func (c *Catalog) Kind() Kind { return KindCatalog }

// TypeFactory returns the factory backing this catalog's constructed
// types. Deserialization and DDL loading allocate through it so equal
// types stay pointer-shared within one catalog.
func (c *Catalog) TypeFactory() *types.Factory { return c.factory }

func (c *Catalog) trackEntries(kind Kind, n int) {
	metrics.SetEntries(c.name, kind.String(), n)
}

// AddTable registers t under its declared name without transferring
// ownership. Registering a second table under the same normalized name
// is a programmer error and panics; use AddTableIfNotPresent to probe.
func (c *Catalog) AddTable(t *Table) { c.addTable(t, false) }

// AddOwnedTable registers t and makes the catalog responsible for its
// lifetime: Close and Clear release owned entries, borrowed ones stay
// with their creator.
func (c *Catalog) AddOwnedTable(t *Table) { c.addTable(t, true) }

func (c *Catalog) addTable(t *Table, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tables.put(t.Name(), t, owned) {
		panic(ErrDuplicateName.New(KindTable, t.Name(), c.name))
	}
	c.trackEntries(KindTable, c.tables.size())
}

// AddTableIfNotPresent registers t unless the name is taken and reports
// whether the insertion happened.
func (c *Catalog) AddTableIfNotPresent(t *Table) bool {
	return c.putTableIfNotPresent(t, false)
}

func (c *Catalog) AddOwnedTableIfNotPresent(t *Table) bool {
	return c.putTableIfNotPresent(t, true)
}

func (c *Catalog) putTableIfNotPresent(t *Table, owned bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tables.put(t.Name(), t, owned) {
		return false
	}
	c.trackEntries(KindTable, c.tables.size())
	return true
}

// AddModel registers m without transferring ownership.
func (c *Catalog) AddModel(m *Model) { c.addModel(m, false) }

// AddOwnedModel registers m and takes ownership.
func (c *Catalog) AddOwnedModel(m *Model) { c.addModel(m, true) }

func (c *Catalog) addModel(m *Model, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.models.put(m.Name(), m, owned) {
		panic(ErrDuplicateName.New(KindModel, m.Name(), c.name))
	}
	c.trackEntries(KindModel, c.models.size())
}

// AddConnection registers conn without transferring ownership.
func (c *Catalog) AddConnection(conn *Connection) { c.addConnection(conn, false) }

// AddOwnedConnection registers conn and takes ownership.
func (c *Catalog) AddOwnedConnection(conn *Connection) { c.addConnection(conn, true) }

func (c *Catalog) addConnection(conn *Connection, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connections.put(conn.Name(), conn, owned) {
		panic(ErrDuplicateName.New(KindConnection, conn.Name(), c.name))
	}
	c.trackEntries(KindConnection, c.connections.size())
}

// AddConnectionIfNotPresent registers conn unless the name is taken and
// reports whether it was added.
func (c *Catalog) AddConnectionIfNotPresent(conn *Connection) bool {
	return c.putConnectionIfNotPresent(conn, false)
}

func (c *Catalog) AddOwnedConnectionIfNotPresent(conn *Connection) bool {
	return c.putConnectionIfNotPresent(conn, true)
}

func (c *Catalog) putConnectionIfNotPresent(conn *Connection, owned bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connections.put(conn.Name(), conn, owned) {
		return false
	}
	c.trackEntries(KindConnection, c.connections.size())
	return true
}

// AddType registers t under name. Types are always borrowed: their
// memory belongs to a type factory, not to the catalog.
func (c *Catalog) AddType(name string, t types.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.namedTypes.put(name, t, false) {
		panic(ErrDuplicateName.New(KindType, name, c.name))
	}
	c.trackEntries(KindType, c.namedTypes.size())
}

func (c *Catalog) AddTypeIfNotPresent(name string, t types.Type) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.namedTypes.put(name, t, false) {
		return false
	}
	c.trackEntries(KindType, c.namedTypes.size())
	return true
}

// AddFunction registers f without transferring ownership.
func (c *Catalog) AddFunction(f *Function) { c.addFunction(f, false) }

// AddOwnedFunction registers f and takes ownership.
func (c *Catalog) AddOwnedFunction(f *Function) { c.addFunction(f, true) }

func (c *Catalog) addFunction(f *Function, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.functions.put(f.Name(), f, owned) {
		panic(ErrDuplicateName.New(KindFunction, f.Name(), c.name))
	}
	c.trackEntries(KindFunction, c.functions.size())
}

func (c *Catalog) AddFunctionIfNotPresent(f *Function) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.functions.put(f.Name(), f, false) {
		return false
	}
	c.trackEntries(KindFunction, c.functions.size())
	return true
}

// AddTableFunction registers f without transferring ownership.
func (c *Catalog) AddTableFunction(f *TableFunction) { c.addTableFunction(f, false) }

// AddOwnedTableFunction registers f and takes ownership.
func (c *Catalog) AddOwnedTableFunction(f *TableFunction) { c.addTableFunction(f, true) }

func (c *Catalog) addTableFunction(f *TableFunction, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tableFuncs.put(f.Name(), f, owned) {
		panic(ErrDuplicateName.New(KindTableFunction, f.Name(), c.name))
	}
	c.trackEntries(KindTableFunction, c.tableFuncs.size())
}

// AddProcedure registers p without transferring ownership.
func (c *Catalog) AddProcedure(p *Procedure) { c.addProcedure(p, false) }

// AddOwnedProcedure registers p and takes ownership.
func (c *Catalog) AddOwnedProcedure(p *Procedure) { c.addProcedure(p, true) }

func (c *Catalog) addProcedure(p *Procedure, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.procedures.put(p.Name(), p, owned) {
		panic(ErrDuplicateName.New(KindProcedure, p.Name(), c.name))
	}
	c.trackEntries(KindProcedure, c.procedures.size())
}

// AddConstant registers k under the last segment of its name path,
// without transferring ownership.
func (c *Catalog) AddConstant(k *Constant) { c.addConstant(k, false) }

// AddOwnedConstant registers k and takes ownership.
func (c *Catalog) AddOwnedConstant(k *Constant) { c.addConstant(k, true) }

func (c *Catalog) addConstant(k *Constant, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.constants.put(k.Name(), k, owned) {
		panic(ErrDuplicateName.New(KindConstant, k.Name(), c.name))
	}
	c.trackEntries(KindConstant, c.constants.size())
}

// AddCatalog registers sub as a nested catalog without transferring
// ownership. The same catalog may be registered under several parents;
// cycles are tolerated by every traversal in this package.
func (c *Catalog) AddCatalog(sub *Catalog) { c.addCatalog(sub, false) }

// AddOwnedCatalog registers sub and takes ownership: closing c closes
// sub as well.
func (c *Catalog) AddOwnedCatalog(sub *Catalog) { c.addCatalog(sub, true) }

func (c *Catalog) addCatalog(sub *Catalog, owned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.catalogs.put(sub.Name(), sub, owned) {
		panic(ErrDuplicateName.New(KindCatalog, sub.Name(), c.name))
	}
	c.trackEntries(KindCatalog, c.catalogs.size())
}

func (c *Catalog) AddCatalogIfNotPresent(sub *Catalog) bool {
	return c.putCatalogIfNotPresent(sub, false)
}

func (c *Catalog) AddOwnedCatalogIfNotPresent(sub *Catalog) bool {
	return c.putCatalogIfNotPresent(sub, true)
}

func (c *Catalog) putCatalogIfNotPresent(sub *Catalog, owned bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.catalogs.put(sub.Name(), sub, owned) {
		return false
	}
	c.trackEntries(KindCatalog, c.catalogs.size())
	return true
}

// FindTable resolves a table by name, case-insensitively. A miss returns
// ErrTableNotFound; use SuggestTable to offer a close name to the user.
func (c *Catalog) FindTable(name string) (*Table, error) {
	c.mu.RLock()
	e, ok := c.tables.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindTable.String(), ok)
	if !ok {
		return nil, ErrTableNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindModel resolves a model by name.
func (c *Catalog) FindModel(name string) (*Model, error) {
	c.mu.RLock()
	e, ok := c.models.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindModel.String(), ok)
	if !ok {
		return nil, ErrModelNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindConnection resolves a connection by name.
func (c *Catalog) FindConnection(name string) (*Connection, error) {
	c.mu.RLock()
	e, ok := c.connections.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindConnection.String(), ok)
	if !ok {
		return nil, ErrConnectionNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindType resolves a type name. Explicitly registered names are checked
// first, then the case-sensitive cache of pool-backed types, then the
// descriptor pool itself, whose message and enum descriptors are
// materialized on first use.
//
// FindType takes the write lock even on the pure-lookup path: pool hits
// populate the cache, and funneling them through one writer keeps
// repeated lookups pointer-identical.
func (c *Catalog) FindType(name string) (types.Type, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.namedTypes.get(name); ok {
		metrics.Lookup(KindType.String(), true)
		return e.value, nil
	}
	if t, ok := c.cachedTypes[name]; ok {
		metrics.Lookup(KindType.String(), true)
		return t, nil
	}
	if c.pool != nil {
		if md, err := c.pool.FindMessage(name); err == nil {
			t := c.factory.ProtoType(md, c.pool)
			c.cachedTypes[name] = t
			metrics.Lookup(KindType.String(), true)
			return t, nil
		}
		if ed, err := c.pool.FindEnum(name); err == nil {
			t := c.factory.EnumType(ed, c.pool)
			c.cachedTypes[name] = t
			metrics.Lookup(KindType.String(), true)
			return t, nil
		}
	}
	metrics.Lookup(KindType.String(), false)
	return nil, ErrTypeNotFound.New(name, c.name)
}

// FindFunction resolves a scalar or aggregate function by name.
func (c *Catalog) FindFunction(name string) (*Function, error) {
	c.mu.RLock()
	e, ok := c.functions.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindFunction.String(), ok)
	if !ok {
		return nil, ErrFunctionNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindTableFunction resolves a table-valued function by name.
func (c *Catalog) FindTableFunction(name string) (*TableFunction, error) {
	c.mu.RLock()
	e, ok := c.tableFuncs.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindTableFunction.String(), ok)
	if !ok {
		return nil, ErrTableFunctionNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindProcedure resolves a procedure by name.
func (c *Catalog) FindProcedure(name string) (*Procedure, error) {
	c.mu.RLock()
	e, ok := c.procedures.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindProcedure.String(), ok)
	if !ok {
		return nil, ErrProcedureNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindConstant resolves a constant by name.
func (c *Catalog) FindConstant(name string) (*Constant, error) {
	c.mu.RLock()
	e, ok := c.constants.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindConstant.String(), ok)
	if !ok {
		return nil, ErrConstantNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindCatalog resolves an immediate sub-catalog by name.
func (c *Catalog) FindCatalog(name string) (*Catalog, error) {
	c.mu.RLock()
	e, ok := c.catalogs.get(name)
	c.mu.RUnlock()
	metrics.Lookup(KindCatalog.String(), ok)
	if !ok {
		return nil, ErrCatalogNotFound.New(name, c.name)
	}
	return e.value, nil
}

// FindCatalogPath descends one path segment at a time from c, locking a
// single catalog per hop.
func (c *Catalog) FindCatalogPath(path []string) (*Catalog, error) {
	if len(path) == 0 {
		return nil, ErrInvalidArgument.New("empty catalog path")
	}
	cur := c
	for _, seg := range path {
		next, err := cur.FindCatalog(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// NamedType pairs a registered type name with its type for enumeration.
type NamedType struct {
	Name string
	Type types.Type
}

// Tables returns this catalog's tables ordered by normalized name.
// Enumerations copy under the read lock, so a returned slice is a
// consistent snapshot but goes stale as soon as the catalog changes.
func (c *Catalog) Tables() []*Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables.values()
}

func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables.names()
}

func (c *Catalog) Models() []*Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.models.values()
}

func (c *Catalog) ModelNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.models.names()
}

func (c *Catalog) Connections() []*Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connections.values()
}

func (c *Catalog) ConnectionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connections.names()
}

// NamedTypes enumerates explicitly registered types only, not the cache
// of pool-materialized ones.
func (c *Catalog) NamedTypes() []NamedType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := c.namedTypes.sortedKeys()
	out := make([]NamedType, len(keys))
	for i, k := range keys {
		e := c.namedTypes.entries[k]
		out[i] = NamedType{Name: e.name, Type: e.value}
	}
	return out
}

func (c *Catalog) TypeNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namedTypes.names()
}

func (c *Catalog) Functions() []*Function {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.functions.values()
}

func (c *Catalog) FunctionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.functions.names()
}

func (c *Catalog) TableFunctions() []*TableFunction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableFuncs.values()
}

func (c *Catalog) TableFunctionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableFuncs.names()
}

func (c *Catalog) Procedures() []*Procedure {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.procedures.values()
}

func (c *Catalog) ProcedureNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.procedures.names()
}

func (c *Catalog) Constants() []*Constant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.constants.values()
}

func (c *Catalog) ConstantNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.constants.names()
}

func (c *Catalog) Catalogs() []*Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalogs.values()
}

func (c *Catalog) CatalogNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalogs.names()
}

// walk visits every catalog reachable from c exactly once. The receiver
// holds no lock while visiting, so fn may use any public accessor.
func (c *Catalog) walk(visited map[*Catalog]bool, fn func(*Catalog)) {
	if visited[c] {
		return
	}
	visited[c] = true
	fn(c)
	for _, sub := range c.Catalogs() {
		sub.walk(visited, fn)
	}
}

// AllTables unions the tables of every catalog reachable from c. Shared
// and cyclic sub-catalogs are visited once.
func (c *Catalog) AllTables() []*Table {
	var out []*Table
	c.walk(make(map[*Catalog]bool), func(cat *Catalog) {
		out = append(out, cat.Tables()...)
	})
	return out
}

// AllFunctions unions the functions of every catalog reachable from c.
func (c *Catalog) AllFunctions() []*Function {
	var out []*Function
	c.walk(make(map[*Catalog]bool), func(cat *Catalog) {
		out = append(out, cat.Functions()...)
	})
	return out
}

// AllTableFunctions unions the table-valued functions of every catalog
// reachable from c.
func (c *Catalog) AllTableFunctions() []*TableFunction {
	var out []*TableFunction
	c.walk(make(map[*Catalog]bool), func(cat *Catalog) {
		out = append(out, cat.TableFunctions()...)
	})
	return out
}

// AllCatalogs returns every catalog reachable from c, including c.
func (c *Catalog) AllCatalogs() []*Catalog {
	var out []*Catalog
	c.walk(make(map[*Catalog]bool), func(cat *Catalog) {
		out = append(out, cat)
	})
	return out
}

// SetDescriptorPool attaches the pool FindType materializes proto and
// enum types from. The pool reference is write-once; replacing it would
// invalidate cached types, so a second call panics.
func (c *Catalog) SetDescriptorPool(pool *types.DescriptorPool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		panic(ErrDescriptorPoolSet.New(c.name))
	}
	c.pool = pool
}

func (c *Catalog) DescriptorPool() *types.DescriptorPool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Close empties the catalog and closes owned sub-catalogs recursively.
// Borrowed entries are left untouched. Close is idempotent; a shared
// sub-catalog owned by two parents is closed once.
func (c *Catalog) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	var owned []*Catalog
	for _, key := range c.catalogs.sortedKeys() {
		if e := c.catalogs.entries[key]; e.owned {
			owned = append(owned, e.value)
		}
	}
	c.tables.reset()
	c.models.reset()
	c.connections.reset()
	c.namedTypes.reset()
	c.functions.reset()
	c.tableFuncs.reset()
	c.procedures.reset()
	c.constants.reset()
	c.catalogs.reset()
	c.cachedTypes = make(map[string]types.Type)
	c.builtinNamespaces = make(map[string]*Catalog)
	c.builtinOptions = nil
	c.mu.Unlock()

	for kind := range kindNames {
		c.trackEntries(kind, 0)
	}

	var firstErr error
	for _, sub := range owned {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
