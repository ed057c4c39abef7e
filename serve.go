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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/server"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/importer"
	"github.com/apecloud/mycatalog/metrics"
	"github.com/apecloud/mycatalog/sqlbridge"
)

func runServe() {
	ctx := context.Background()

	var cat *catalog.Catalog
	if dsn == "" {
		if data, err := os.ReadFile(snapshotPath); err == nil {
			snap, restored, err := restoredCatalog(data)
			if err != nil {
				logrus.Fatalln("Failed to restore the snapshot:", err)
			}
			logrus.WithField("snapshot", snap.ID).Info("Serving the restored catalog")
			cat = restored
		}
	}
	if cat == nil {
		built, err := newCatalog()
		if err != nil {
			logrus.Fatalln("Failed to assemble the catalog:", err)
		}
		cat = built
	}
	defer cat.Close()

	if dsn != "" {
		db, err := sqlx.ConnectContext(ctx, driver, dsn)
		if err != nil {
			logrus.Fatalln("Failed to connect to the source:", err)
		}
		defer db.Close()

		opts := importOptions()
		opts.SampleLimit = sampleRows
		if _, err := importer.Import(ctx, cat, db, opts); err != nil {
			logrus.Fatalln("Failed to import the source:", err)
		}
	}

	if metricsPort > 0 {
		metrics.Register(prometheus.DefaultRegisterer)
		go serveMetrics(metricsPort)
	}

	engine := sqle.NewDefault(sqlbridge.NewProvider(cat))
	config := server.Config{
		Protocol: "tcp",
		Address:  fmt.Sprintf("%s:%d", address, port),
	}
	s, err := server.NewDefaultServer(config, engine)
	if err != nil {
		panic(err)
	}
	if err = s.Start(); err != nil {
		panic(err)
	}
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf("%s:%d", address, port)
	logrus.WithField("address", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithError(err).Error("Metrics server stopped")
	}
}
