// Copyright 2024-2025 ApeCloud, Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sqlbridge serves a catalog to go-mysql-server, presenting
// each immediate sub-catalog as a database. The bridge is read-only:
// schema changes go through the catalog API, not through SQL DDL.
package sqlbridge

import (
	"github.com/dolthub/go-mysql-server/sql"

	"github.com/apecloud/mycatalog/catalog"
)

// Provider exposes the sub-catalogs of a root catalog as databases.
type Provider struct {
	root *catalog.Catalog
}

var _ sql.DatabaseProvider = (*Provider)(nil)

func NewProvider(root *catalog.Catalog) *Provider {
	return &Provider{root: root}
}

// Database implements sql.DatabaseProvider.
func (p *Provider) Database(_ *sql.Context, name string) (sql.Database, error) {
	sub, err := p.root.FindCatalog(name)
	if err != nil {
		return nil, sql.ErrDatabaseNotFound.New(name)
	}
	return &Database{cat: sub}, nil
}

// HasDatabase implements sql.DatabaseProvider.
func (p *Provider) HasDatabase(_ *sql.Context, name string) bool {
	_, err := p.root.FindCatalog(name)
	return err == nil
}

// AllDatabases implements sql.DatabaseProvider.
func (p *Provider) AllDatabases(_ *sql.Context) []sql.Database {
	subs := p.root.Catalogs()
	out := make([]sql.Database, 0, len(subs))
	for _, sub := range subs {
		out = append(out, &Database{cat: sub})
	}
	return out
}
