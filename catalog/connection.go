package catalog

// Connection names an external data source reachable from analyzed
// queries. The catalog records the coordinates only; it never dials.
type Connection struct {
	name   string
	driver string
	dsn    string
}

var _ Object = (*Connection)(nil)

func NewConnection(name, driver, dsn string) *Connection {
	return &Connection{name: name, driver: driver, dsn: dsn}
}

// Name implements Object.
func (c *Connection) Name() string { return c.name }

// Kind implements Object.
func (c *Connection) Kind() Kind { return KindConnection }

// Driver returns the database/sql driver name, e.g. "pgx" or "duckdb".
func (c *Connection) Driver() string { return c.driver }

// DSN returns the data source string the connection was declared with.
func (c *Connection) DSN() string { return c.dsn }
