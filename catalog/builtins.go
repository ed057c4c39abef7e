package catalog

import (
	"github.com/sirupsen/logrus"
)

// BuiltinOptions selects which builtin definitions a provider yields.
type BuiltinOptions struct {
	// IncludeFamilies restricts loading to the named function families.
	// Empty means every family the provider knows.
	IncludeFamilies []string

	// ExcludeFunctions drops individual functions by name after family
	// selection. Names match case-insensitively.
	ExcludeFunctions []string
}

// IncludesFamily reports whether the family passes the filter.
func (o BuiltinOptions) IncludesFamily(name string) bool {
	if len(o.IncludeFamilies) == 0 {
		return true
	}
	for _, f := range o.IncludeFamilies {
		if NamesEqual(f, name) {
			return true
		}
	}
	return false
}

// Excludes reports whether the named function is filtered out.
func (o BuiltinOptions) Excludes(name string) bool {
	for _, f := range o.ExcludeFunctions {
		if NamesEqual(f, name) {
			return true
		}
	}
	return false
}

// BuiltinFunction pairs a function definition with the namespace it is
// published under. An empty namespace targets the root catalog itself.
type BuiltinFunction struct {
	Namespace string
	Function  *Function
}

// BuiltinTableFunction is BuiltinFunction for table-valued functions.
type BuiltinTableFunction struct {
	Namespace string
	Function  *TableFunction
}

// BuiltinProvider enumerates builtin definitions. Implementations apply
// the options themselves so they never materialize filtered-out
// families.
type BuiltinProvider interface {
	BuiltinFunctions(opts BuiltinOptions) ([]BuiltinFunction, error)
	BuiltinTableFunctions(opts BuiltinOptions) ([]BuiltinTableFunction, error)
}

// LoadBuiltins installs the provider's definitions into the catalog.
// Non-namespaced functions land in the catalog itself; namespaced ones
// land in an owned sub-catalog per namespace, created on first use and
// tracked so ClearFunctions can remove exactly these again. Every
// installed function is owned and stamped with BuiltinGroup.
//
// Loading twice without an intervening ClearFunctions panics on the
// first name collision, like any other duplicate Add.
func (c *Catalog) LoadBuiltins(opts BuiltinOptions, provider BuiltinProvider) error {
	fns, err := provider.BuiltinFunctions(opts)
	if err != nil {
		return ErrBuiltins.New(err)
	}
	tvfs, err := provider.BuiltinTableFunctions(opts)
	if err != nil {
		return ErrBuiltins.New(err)
	}

	for _, bf := range fns {
		bf.Function.SetGroup(BuiltinGroup)
		c.builtinTarget(bf.Namespace).AddOwnedFunction(bf.Function)
	}
	for _, btf := range tvfs {
		btf.Function.SetGroup(BuiltinGroup)
		c.builtinTarget(btf.Namespace).AddOwnedTableFunction(btf.Function)
	}

	c.mu.Lock()
	recorded := opts
	c.builtinOptions = &recorded
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"catalog":         c.name,
		"functions":       len(fns),
		"table_functions": len(tvfs),
	}).Debug("Loaded builtin functions")
	return nil
}

// BuiltinOptions returns the options recorded by the last LoadBuiltins,
// if any.
func (c *Catalog) BuiltinOptions() (BuiltinOptions, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.builtinOptions == nil {
		return BuiltinOptions{}, false
	}
	return *c.builtinOptions, true
}

// builtinTarget resolves the catalog that builtins in namespace ns go
// into, creating the namespace sub-catalog on first use. A namespace
// colliding with a user-registered sub-catalog panics.
func (c *Catalog) builtinTarget(ns string) *Catalog {
	if ns == "" {
		return c
	}
	key := normalizeName(ns)
	c.mu.Lock()
	defer c.mu.Unlock()
	if sub, ok := c.builtinNamespaces[key]; ok {
		return sub
	}
	sub := New(ns)
	if !c.catalogs.put(ns, sub, true) {
		panic(ErrDuplicateName.New(KindCatalog, ns, c.name))
	}
	c.builtinNamespaces[key] = sub
	c.trackEntries(KindCatalog, c.catalogs.size())
	return sub
}

// ClearFunctions removes every function registered in this catalog,
// builtin or not, and clears builtin namespace sub-catalogs. A namespace
// sub-catalog left empty is unregistered and closed; user-added
// sub-catalogs are never touched. The recorded builtin options are
// dropped so builtins can be reloaded with a different configuration.
func (c *Catalog) ClearFunctions() {
	c.mu.Lock()
	c.functions.reset()
	c.trackEntries(KindFunction, 0)
	namespaces := make([]*Catalog, 0, len(c.builtinNamespaces))
	for _, sub := range c.builtinNamespaces {
		namespaces = append(namespaces, sub)
	}
	c.builtinOptions = nil
	c.mu.Unlock()

	for _, sub := range namespaces {
		sub.ClearFunctions()
		c.dropNamespaceIfEmpty(sub)
	}
}

// ClearTableValuedFunctions is ClearFunctions for the table-valued
// function namespace. The recorded builtin options survive; they belong
// to scalar function loading.
func (c *Catalog) ClearTableValuedFunctions() {
	c.mu.Lock()
	c.tableFuncs.reset()
	c.trackEntries(KindTableFunction, 0)
	namespaces := make([]*Catalog, 0, len(c.builtinNamespaces))
	for _, sub := range c.builtinNamespaces {
		namespaces = append(namespaces, sub)
	}
	c.mu.Unlock()

	for _, sub := range namespaces {
		sub.ClearTableValuedFunctions()
		c.dropNamespaceIfEmpty(sub)
	}
}

func (c *Catalog) dropNamespaceIfEmpty(sub *Catalog) {
	if !sub.isEmpty() {
		return
	}
	key := normalizeName(sub.Name())
	c.mu.Lock()
	if c.builtinNamespaces[key] == sub {
		delete(c.builtinNamespaces, key)
		c.catalogs.removeKey(key)
		c.trackEntries(KindCatalog, c.catalogs.size())
	}
	c.mu.Unlock()
	_ = sub.Close()
}

func (c *Catalog) isEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables.size()+c.models.size()+c.connections.size()+
		c.namedTypes.size()+c.functions.size()+c.tableFuncs.size()+
		c.procedures.size()+c.constants.size()+c.catalogs.size() == 0
}
