package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoregistry"
	_ "google.golang.org/protobuf/types/descriptorpb"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/apecloud/mycatalog/types"
)

func mustTable(t *testing.T, name string, cols ...*Column) *Table {
	t.Helper()
	tbl, err := NewTable(name, cols...)
	require.NoError(t, err)
	return tbl
}

// requirePanicKind runs fn and asserts it panics with an error of the
// given kind.
func requirePanicKind(t *testing.T, kind *errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, kind.Is(err), "unexpected panic: %v", err)
	}()
	fn()
}

func TestFindIsCaseInsensitive(t *testing.T) {
	c := New("db")
	c.AddTable(mustTable(t, "Foo", NewColumn("id", types.Int64)))

	for _, name := range []string{"Foo", "foo", "FOO"} {
		tbl, err := c.FindTable(name)
		require.NoError(t, err, "lookup of %q", name)
		assert.Equal(t, "Foo", tbl.Name())
	}
}

func TestFindNormalizesUnicode(t *testing.T) {
	c := New("db")
	// Precomposed U+00E9 in the declared name.
	c.AddTable(mustTable(t, "Café", NewColumn("id", types.Int64)))

	// The decomposed spelling (e plus combining acute) must hit the
	// same entry.
	tbl, err := c.FindTable("café")
	require.NoError(t, err)
	assert.Equal(t, "Café", tbl.Name())
}

func TestDuplicateAddPanics(t *testing.T) {
	c := New("db")
	c.AddTable(mustTable(t, "Events", NewColumn("id", types.Int64)))

	requirePanicKind(t, ErrDuplicateName, func() {
		c.AddTable(mustTable(t, "events"))
	})

	// The original entry is untouched.
	tbl, err := c.FindTable("events")
	require.NoError(t, err)
	assert.Equal(t, "Events", tbl.Name())
}

func TestSameNameAcrossKinds(t *testing.T) {
	c := New("db")

	c.AddTable(mustTable(t, "metric", NewColumn("v", types.Double)))
	m := NewModel("metric")
	require.NoError(t, m.AddInput("x", types.Double))
	c.AddModel(m)
	c.AddConnection(NewConnection("metric", "duckdb", ""))
	c.AddType("metric", types.Double)
	c.AddFunction(NewFunction("metric", Signature{Result: types.Double}))
	c.AddTableFunction(NewTableFunction("metric", nil, []*Column{NewColumn("v", types.Double)}))
	c.AddProcedure(NewProcedure("metric", Signature{}))
	k, err := NewConstant([]string{"metric"}, types.DoubleValue(1))
	require.NoError(t, err)
	c.AddConstant(k)
	c.AddCatalog(New("metric"))

	// Every namespace resolves to its own object.
	tbl, err := c.FindTable("metric")
	require.NoError(t, err)
	assert.Equal(t, KindTable, tbl.Kind())
	fn, err := c.FindFunction("metric")
	require.NoError(t, err)
	assert.Equal(t, KindFunction, fn.Kind())
	sub, err := c.FindCatalog("metric")
	require.NoError(t, err)
	assert.Equal(t, KindCatalog, sub.Kind())
	typ, err := c.FindType("metric")
	require.NoError(t, err)
	assert.True(t, typ.Equal(types.Double))
}

func TestFindMissReturnsTypedError(t *testing.T) {
	c := New("db")

	_, err := c.FindTable("nope")
	assert.True(t, ErrTableNotFound.Is(err))
	_, err = c.FindModel("nope")
	assert.True(t, ErrModelNotFound.Is(err))
	_, err = c.FindConnection("nope")
	assert.True(t, ErrConnectionNotFound.Is(err))
	_, err = c.FindType("nope")
	assert.True(t, ErrTypeNotFound.Is(err))
	_, err = c.FindFunction("nope")
	assert.True(t, ErrFunctionNotFound.Is(err))
	_, err = c.FindTableFunction("nope")
	assert.True(t, ErrTableFunctionNotFound.Is(err))
	_, err = c.FindProcedure("nope")
	assert.True(t, ErrProcedureNotFound.Is(err))
	_, err = c.FindConstant("nope")
	assert.True(t, ErrConstantNotFound.Is(err))
	_, err = c.FindCatalog("nope")
	assert.True(t, ErrCatalogNotFound.Is(err))
}

func TestAddIfNotPresent(t *testing.T) {
	c := New("db")

	first := mustTable(t, "Orders", NewColumn("id", types.Int64))
	require.True(t, c.AddTableIfNotPresent(first))
	assert.False(t, c.AddTableIfNotPresent(mustTable(t, "ORDERS")))

	got, err := c.FindTable("orders")
	require.NoError(t, err)
	assert.Same(t, first, got)

	sub := New("sales")
	require.True(t, c.AddOwnedCatalogIfNotPresent(sub))
	assert.False(t, c.AddCatalogIfNotPresent(New("Sales")))

	require.True(t, c.AddTypeIfNotPresent("id", types.Int64))
	assert.False(t, c.AddTypeIfNotPresent("ID", types.String))
	typ, err := c.FindType("id")
	require.NoError(t, err)
	assert.True(t, typ.Equal(types.Int64))
}

func TestEnumerationOrderAndSpelling(t *testing.T) {
	c := New("db")
	c.AddTable(mustTable(t, "Beta"))
	c.AddTable(mustTable(t, "alpha"))
	c.AddTable(mustTable(t, "GAMMA"))

	// Ordered by normalized name, reported with the declared spelling.
	assert.Equal(t, []string{"alpha", "Beta", "GAMMA"}, c.TableNames())

	tables := c.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, "alpha", tables[0].Name())
	assert.Equal(t, "Beta", tables[1].Name())
	assert.Equal(t, "GAMMA", tables[2].Name())
}

func TestFindCatalogPath(t *testing.T) {
	root := New("root")
	sales := New("Sales")
	west := New("West")
	root.AddOwnedCatalog(sales)
	sales.AddOwnedCatalog(west)
	west.AddTable(mustTable(t, "orders"))

	got, err := root.FindCatalogPath([]string{"sales", "west"})
	require.NoError(t, err)
	assert.Same(t, west, got)

	_, err = root.FindCatalogPath([]string{"sales", "east"})
	assert.True(t, ErrCatalogNotFound.Is(err))

	_, err = root.FindCatalogPath(nil)
	assert.True(t, ErrInvalidArgument.Is(err))
}

func TestCloseReleasesOwnedEntriesOnly(t *testing.T) {
	root := New("root")
	owned := New("owned")
	owned.AddTable(mustTable(t, "t1"))
	borrowed := New("borrowed")
	borrowed.AddTable(mustTable(t, "t2"))

	root.AddOwnedCatalog(owned)
	root.AddCatalog(borrowed)
	root.AddTable(mustTable(t, "rt"))

	require.NoError(t, root.Close())

	assert.Empty(t, root.TableNames())
	assert.Empty(t, root.CatalogNames())
	assert.Empty(t, owned.TableNames(), "owned sub-catalog should be closed")
	assert.Equal(t, []string{"t2"}, borrowed.TableNames(), "borrowed sub-catalog must survive")

	// Idempotent.
	require.NoError(t, root.Close())
}

func TestCloseSharedSubCatalogOnce(t *testing.T) {
	shared := New("shared")
	shared.AddTable(mustTable(t, "st"))

	a := New("a")
	b := New("b")
	a.AddOwnedCatalog(shared)
	b.AddOwnedCatalog(shared)

	require.NoError(t, a.Close())
	assert.Empty(t, shared.TableNames())
	// The second owner closes an already-closed catalog without error.
	require.NoError(t, b.Close())
}

func TestAllTablesVisitsSharedSubOnce(t *testing.T) {
	root := New("root")
	a := New("a")
	b := New("b")
	shared := New("shared")
	shared.AddTable(mustTable(t, "shared_t"))
	a.AddCatalog(shared)
	b.AddCatalog(shared)
	root.AddOwnedCatalog(a)
	root.AddOwnedCatalog(b)
	root.AddTable(mustTable(t, "root_t"))

	var sharedSeen int
	for _, tbl := range root.AllTables() {
		if tbl.Name() == "shared_t" {
			sharedSeen++
		}
	}
	assert.Equal(t, 1, sharedSeen)
	assert.Len(t, root.AllCatalogs(), 4)
}

func TestAllCatalogsTerminatesOnCycle(t *testing.T) {
	root := New("root")
	sub := New("sub")
	root.AddCatalog(sub)
	sub.AddCatalog(root)

	cats := root.AllCatalogs()
	assert.Len(t, cats, 2)
	assert.Contains(t, cats, root)
	assert.Contains(t, cats, sub)
}

func TestSetDescriptorPoolTwicePanics(t *testing.T) {
	c := New("db")
	c.SetDescriptorPool(types.NewDescriptorPool())
	requirePanicKind(t, ErrDescriptorPoolSet, func() {
		c.SetDescriptorPool(types.NewDescriptorPool())
	})
}

func TestFindTypeFromDescriptorPool(t *testing.T) {
	// descriptor.proto is registered globally by the descriptorpb
	// import above.
	pool := types.NewPoolFromFiles(protoregistry.GlobalFiles)
	c := New("db")
	c.SetDescriptorPool(pool)

	typ, err := c.FindType("google.protobuf.FileDescriptorSet")
	require.NoError(t, err)
	require.Equal(t, types.KindProto, typ.Kind())

	// Pool-backed lookups are cached and pointer-stable.
	again, err := c.FindType("google.protobuf.FileDescriptorSet")
	require.NoError(t, err)
	assert.Same(t, typ, again)

	enum, err := c.FindType("google.protobuf.FieldDescriptorProto.Type")
	require.NoError(t, err)
	assert.Equal(t, types.KindEnum, enum.Kind())

	// Proto names resolve case-sensitively, unlike catalog entries.
	_, err = c.FindType("google.protobuf.fileDescriptorSet")
	assert.True(t, ErrTypeNotFound.Is(err))
}

func TestFindTypeExplicitWinsOverPool(t *testing.T) {
	pool := types.NewPoolFromFiles(protoregistry.GlobalFiles)
	c := New("db")
	c.SetDescriptorPool(pool)
	c.AddType("google.protobuf.FileDescriptorSet", types.String)

	typ, err := c.FindType("google.protobuf.FileDescriptorSet")
	require.NoError(t, err)
	assert.True(t, typ.Equal(types.String))
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	c := New("db")
	c.AddTable(mustTable(t, "seed"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			tbl, _ := NewTable("seed")
			c.AddTableIfNotPresent(tbl)
			c.AddFunctionIfNotPresent(NewFunction("f", Signature{Result: types.Int64}))
		}
	}()
	for i := 0; i < 200; i++ {
		if _, err := c.FindTable("SEED"); err != nil {
			t.Errorf("lookup failed: %v", err)
		}
		c.TableNames()
	}
	<-done
}
