package catalog

import (
	"github.com/apecloud/mycatalog/types"
)

// Constant is a named typed value. Constants carry a full name path so a
// constant declared inside a nested catalog can report where it lives.
type Constant struct {
	namePath []string
	value    types.Value
}

var _ Object = (*Constant)(nil)

// NewConstant builds a constant from a non-empty name path and a value.
// The last path segment is the name it is registered under.
func NewConstant(namePath []string, value types.Value) (*Constant, error) {
	if len(namePath) == 0 {
		return nil, ErrInvalidArgument.New("constant requires a non-empty name path")
	}
	for _, part := range namePath {
		if part == "" {
			return nil, ErrInvalidArgument.New("constant name path contains an empty segment")
		}
	}
	path := make([]string, len(namePath))
	copy(path, namePath)
	return &Constant{namePath: path, value: value}, nil
}

// Name implements Object. It returns the last segment of the name path.
func (c *Constant) Name() string { return c.namePath[len(c.namePath)-1] }

// Kind implements Object.
func (c *Constant) Kind() Kind { return KindConstant }

// NamePath returns the full declared path of the constant.
func (c *Constant) NamePath() []string {
	out := make([]string, len(c.namePath))
	copy(out, c.namePath)
	return out
}

// FullName returns the dotted rendering of the name path.
func (c *Constant) FullName() string { return JoinNames(c.namePath...) }

func (c *Constant) Value() types.Value { return c.value }
