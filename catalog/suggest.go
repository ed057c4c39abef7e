package catalog

import (
	"github.com/agext/levenshtein"

	"github.com/apecloud/mycatalog/configuration"
	"github.com/apecloud/mycatalog/metrics"
)

// SuggestTable returns the closest table name to a mistyped path, or ""
// when no single candidate stands out. The path is the dotted name the
// resolver failed on, split into segments: all but the last are treated
// as a sub-catalog path, the last as the mistyped identifier.
//
// If the prefix resolves to a sub-catalog, the search continues there
// with the last segment alone and the result comes back qualified with
// the resolved catalog names. Otherwise the last segment is matched
// against this catalog's own entries and returned bare. Suggestions are
// read-only and never mutate the catalog.
func (c *Catalog) SuggestTable(path []string) string {
	return c.suggest(path, KindTable)
}

// SuggestModel is SuggestTable over the model namespace.
func (c *Catalog) SuggestModel(path []string) string {
	return c.suggest(path, KindModel)
}

// SuggestFunction is SuggestTable over the function namespace.
func (c *Catalog) SuggestFunction(path []string) string {
	return c.suggest(path, KindFunction)
}

// SuggestTableFunction is SuggestTable over the table-valued function
// namespace.
func (c *Catalog) SuggestTableFunction(path []string) string {
	return c.suggest(path, KindTableFunction)
}

// SuggestConstant is SuggestTable over the constant namespace.
func (c *Catalog) SuggestConstant(path []string) string {
	return c.suggest(path, KindConstant)
}

// SuggestType is SuggestTable over the explicitly named types. Cached
// structural types are keyed by case-sensitive proto full names and are
// not candidates.
func (c *Catalog) SuggestType(path []string) string {
	return c.suggest(path, KindType)
}

func (c *Catalog) suggest(path []string, kind Kind) string {
	if len(path) == 0 || configuration.IsSuggestDisabled() {
		return ""
	}
	s := c.suggestPath(path, kind)
	metrics.Suggestion(kind.String(), s != "")
	return s
}

func (c *Catalog) suggestPath(path []string, kind Kind) string {
	last := path[len(path)-1]
	if len(path) > 1 {
		cur := c
		prefix := make([]string, 0, len(path)-1)
		for _, seg := range path[:len(path)-1] {
			next, ok := cur.subCatalog(seg)
			if !ok {
				cur = nil
				break
			}
			prefix = append(prefix, next.Name())
			cur = next
		}
		if cur != nil {
			// The caller mis-qualified an object that lives one level
			// down; an exact match there scores distance zero.
			inner := cur.closestName(last, kind)
			if inner == "" {
				return ""
			}
			return JoinNames(append(prefix, inner)...)
		}
	}
	return c.closestName(last, kind)
}

// closestName returns the unique candidate of the given kind within the
// closeness bound of target, or "" when none or several qualify. Several
// close names mean the guess would be arbitrary, so none is made.
func (c *Catalog) closestName(target string, kind Kind) string {
	want := normalizeName(target)
	// A quarter of the identifier may be wrong, plus one so short names
	// get a chance.
	limit := 1 + len(want)/4
	var match string
	matched := 0
	for _, name := range c.namesOfKind(kind) {
		if levenshtein.Distance(normalizeName(name), want, nil) <= limit {
			match = name
			matched++
			if matched > 1 {
				return ""
			}
		}
	}
	if matched != 1 {
		return ""
	}
	return match
}

// subCatalog is FindCatalog without the lookup metrics, for internal
// probing.
func (c *Catalog) subCatalog(name string) (*Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.catalogs.get(name)
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Catalog) namesOfKind(kind Kind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch kind {
	case KindTable:
		return c.tables.names()
	case KindModel:
		return c.models.names()
	case KindConnection:
		return c.connections.names()
	case KindType:
		return c.namedTypes.names()
	case KindFunction:
		return c.functions.names()
	case KindTableFunction:
		return c.tableFuncs.names()
	case KindProcedure:
		return c.procedures.names()
	case KindConstant:
		return c.constants.names()
	case KindCatalog:
		return c.catalogs.names()
	}
	return nil
}
