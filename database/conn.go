/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalFactory *Factory
)

// GetDB returns the global Bun database, or nil before InitDB.
func GetDB() *bun.DB {
	f := getFactory()
	if f == nil {
		return nil
	}
	return f.GetDB()
}

// GetManager returns the global database manager, or nil before InitDB.
func GetManager() Manager {
	f := getFactory()
	if f == nil {
		return nil
	}
	return f.GetManager()
}

func getFactory() *Factory {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactory
}

// InitDB connects the global database and creates registered tables when
// cfg.Migrate.EnableMigrateOnStartup is set. A previous global connection
// is closed first.
func InitDB(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	factory := NewFactory()
	manager, err := factory.CreateFromConfig(&cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := factory.InitializeDatabase(context.Background(), cfg.Migrate.EnableMigrateOnStartup); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db := manager.GetDB()
	db.RegisterModel(registeredInstances()...)

	globalMu.Lock()
	previous := globalFactory
	globalFactory = factory
	globalMu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}
	return db, nil
}

// CloseDB closes the global database connection.
func CloseDB() error {
	globalMu.Lock()
	f := globalFactory
	globalFactory = nil
	globalMu.Unlock()
	if f == nil {
		return nil
	}
	return f.Close()
}

// GetHealthStatus checks the global database.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	f := getFactory()
	if f == nil {
		return &HealthStatus{LastError: "Database not initialized"}
	}
	return f.GetHealthStatus(ctx)
}

// GetDatabaseStats returns pool statistics of the global database.
func GetDatabaseStats() *DBStats {
	f := getFactory()
	if f == nil {
		return &DBStats{}
	}
	return f.GetStats()
}

// RunMigrations applies pending migrations on the global database.
func RunMigrations(ctx context.Context) error {
	manager := GetManager()
	if manager == nil {
		return fmt.Errorf("database not initialized")
	}
	return manager.RunMigrations(ctx)
}
