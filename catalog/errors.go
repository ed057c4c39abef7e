package catalog

import (
	"gopkg.in/src-d/go-errors.v1"
)

// Recoverable lookup and input conditions. Callers test these with
// Kind.Is and decide how to surface them, e.g. as an "unrecognized
// name, did you mean X" diagnostic built from the Suggest methods.
var (
	ErrTableNotFound         = errors.NewKind("catalog: table %q not found in catalog %q")
	ErrModelNotFound         = errors.NewKind("catalog: model %q not found in catalog %q")
	ErrConnectionNotFound    = errors.NewKind("catalog: connection %q not found in catalog %q")
	ErrTypeNotFound          = errors.NewKind("catalog: type %q not found in catalog %q")
	ErrFunctionNotFound      = errors.NewKind("catalog: function %q not found in catalog %q")
	ErrTableFunctionNotFound = errors.NewKind("catalog: table-valued function %q not found in catalog %q")
	ErrProcedureNotFound     = errors.NewKind("catalog: procedure %q not found in catalog %q")
	ErrConstantNotFound      = errors.NewKind("catalog: constant %q not found in catalog %q")
	ErrCatalogNotFound       = errors.NewKind("catalog: catalog %q not found in catalog %q")

	ErrAnonymousColumn = errors.NewKind("catalog: anonymous columns are not allowed in table %q")
	ErrDuplicateColumn = errors.NewKind("catalog: duplicate column name %q in table %q")
	ErrInvalidArgument = errors.NewKind("catalog: %s")
	ErrInvalidRecord   = errors.NewKind("catalog: invalid catalog record: %s")
	ErrBuiltins        = errors.NewKind("catalog: loading builtins: %v")
)

// Programmer-contract violations. Catalogs are assembled by setup code,
// not by query traffic, so these panic with the kind error instead of
// returning it.
var (
	ErrDuplicateName     = errors.NewKind("catalog: %s %q already exists in catalog %q")
	ErrDescriptorPoolSet = errors.NewKind("catalog: descriptor pool already set on catalog %q")
	ErrColumnPolicy      = errors.NewKind("catalog: cannot disallow %s column names on table %q after one was added")
)
