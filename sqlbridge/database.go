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

package sqlbridge

import (
	"github.com/dolthub/go-mysql-server/sql"

	"github.com/apecloud/mycatalog/catalog"
)

// Database wraps one catalog as a go-mysql-server database.
type Database struct {
	cat *catalog.Catalog
}

var _ sql.Database = (*Database)(nil)

// Name implements sql.Database.
func (d *Database) Name() string { return d.cat.Name() }

// GetTableInsensitive implements sql.Database. The catalog resolves
// names case-insensitively already, so the lookup passes straight
// through.
func (d *Database) GetTableInsensitive(_ *sql.Context, tblName string) (sql.Table, bool, error) {
	tbl, err := d.cat.FindTable(tblName)
	if err != nil {
		if catalog.ErrTableNotFound.Is(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	bridged, err := bridgeTable(tbl)
	if err != nil {
		return nil, false, err
	}
	return bridged, true, nil
}

// GetTableNames implements sql.Database.
func (d *Database) GetTableNames(_ *sql.Context) ([]string, error) {
	return d.cat.TableNames(), nil
}
