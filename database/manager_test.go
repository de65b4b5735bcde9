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
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type captureLogger struct {
	mu       sync.Mutex
	messages []string
	fields   [][]interface{}
}

func (l *captureLogger) record(msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func (l *captureLogger) SetLevel(LogLevel) {}
func (l *captureLogger) Debug(msg string, fields ...interface{}) { l.record(msg, fields) }
func (l *captureLogger) Info(msg string, fields ...interface{}) { l.record(msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...interface{}) { l.record(msg, fields) }
func (l *captureLogger) Error(msg string, fields ...interface{}) { l.record(msg, fields) }

func (l *captureLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

type account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type ledgerEntry struct {
	bun.BaseModel `bun:"table:ledger_entries"`

	ID        int64 `bun:"id,pk,autoincrement"`
	AccountID int64 `bun:"account_id,notnull"`
	Amount    int64 `bun:"amount"`
}

func sqliteConfig(t *testing.T) *Config {
	t.Helper()
	conn := DefaultConnectionConfig()
	conn.Type = "sqlite"
	conn.DBName = filepath.Join(t.TempDir(), "ledger")
	conn.HealthCheckInterval = 0
	conn.SlowQueryTime = 0
	return &Config{Connection: *conn, Migrate: MigrateConfig{EnableMigrateOnStartup: true}}
}

func newSQLiteManager(t *testing.T) Manager {
	t.Helper()
	cfg := sqliteConfig(t)
	m := NewManager(&cfg.Connection)
	m.SetLogger(&captureLogger{})
	require.NoError(t, m.Connect(context.Background()))
	t.Cleanup(func() { _ = m.Disconnect() })
	return m
}

func TestModelRegistryOrder(t *testing.T) {
	r := NewModelRegistry()
	r.Register((*ledgerEntry)(nil), 20)
	r.Register((*account)(nil), 10)
	r.Register((*Migration)(nil), 20)

	models := r.Models()
	require.Len(t, models, 3)
	assert.IsType(t, (*account)(nil), models[0].Instance)
	assert.IsType(t, (*ledgerEntry)(nil), models[1].Instance)
	assert.IsType(t, (*Migration)(nil), models[2].Instance)
	assert.Len(t, r.Instances(), 3)
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManager(t)

	require.NoError(t, m.Connect(ctx))
	require.NoError(t, m.Ping(ctx))
	assert.NotNil(t, m.GetDB())
	assert.NotNil(t, m.GetSQLDB())

	status := m.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 100, m.GetStats().MaxOpenConns)

	require.NoError(t, m.Reconnect(ctx))
	require.NoError(t, m.Ping(ctx))

	require.NoError(t, m.Disconnect())
	assert.Nil(t, m.GetDB())
	assert.Error(t, m.Ping(ctx))
	assert.False(t, m.HealthCheck(ctx).Healthy)
	assert.Equal(t, &DBStats{}, m.GetStats())
	assert.Error(t, m.RunMigrations(ctx))
}

func healthDone(t *testing.T, m Manager) chan struct{} {
	t.Helper()
	dm, ok := m.(*defaultManager)
	require.True(t, ok)
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.healthDone
}

func TestDisconnectStopsHealthCheck(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	cfg.Connection.HealthCheckInterval = time.Millisecond
	m := NewManager(&cfg.Connection)
	m.SetLogger(&captureLogger{})

	for round := 0; round < 2; round++ {
		require.NoError(t, m.Connect(ctx))
		done := healthDone(t, m)
		require.NotNil(t, done)

		// Let the loop run checks so Disconnect races an in-flight one.
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, m.Disconnect())

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("health check loop still running after Disconnect (round %d)", round)
		}
		assert.Nil(t, healthDone(t, m))
	}
}

func TestInMemorySQLiteKeepsSchema(t *testing.T) {
	ctx := context.Background()
	conn := DefaultConnectionConfig()
	conn.Type = "sqlite"
	conn.DBName = ":memory:"
	conn.HealthCheckInterval = 0
	m := NewManager(conn)
	require.NoError(t, m.Connect(ctx))
	defer func() { _ = m.Disconnect() }()

	assert.Equal(t, 1, m.GetStats().MaxOpenConns)
	_, err := m.GetDB().NewCreateTable().Model((*account)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)
	_, err = m.GetDB().NewInsert().Model(&account{Name: "cash"}).Exec(ctx)
	require.NoError(t, err)

	count, err := m.GetDB().NewSelect().Model((*account)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrationManager(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManager(t)
	logger := &captureLogger{}

	registry := NewModelRegistry()
	registry.Register((*ledgerEntry)(nil), 2)
	registry.Register((*account)(nil), 1)

	seeded := 0
	seed := MigrationItem{
		Version:     "002",
		Name:        "seed_cash_account",
		Description: "Insert the cash account",
		Up: func(ctx context.Context, db bun.IDB) error {
			seeded++
			_, err := db.NewInsert().Model(&account{Name: "cash"}).Exec(ctx)
			return err
		},
	}

	mm := NewMigrationManager(m.GetDB(), logger).WithRegistry(registry).Add(seed)
	require.NoError(t, mm.RunMigrations(ctx))
	require.NoError(t, mm.RunMigrations(ctx))
	assert.Equal(t, 1, seeded)

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "001", applied[0].Version)
	assert.Equal(t, "create_registered_tables", applied[0].Name)
	assert.Equal(t, "002", applied[1].Version)

	count, err := m.GetDB().NewSelect().Model((*account)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, err = m.GetDB().NewSelect().Model((*ledgerEntry)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Contains(t, logger.Messages(), "Database migrations completed!")
}

func TestMigrationRollsBackFailedStep(t *testing.T) {
	ctx := context.Background()
	m := newSQLiteManager(t)

	broken := MigrationItem{
		Version: "002",
		Name:    "broken",
		Up: func(ctx context.Context, db bun.IDB) error {
			if _, err := db.NewInsert().Model(&account{Name: "partial"}).Exec(ctx); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, "INSERT INTO missing_table VALUES (1)")
			return err
		},
	}
	registry := NewModelRegistry()
	registry.Register((*account)(nil), 1)
	mm := NewMigrationManager(m.GetDB(), nil).WithRegistry(registry).Add(broken)

	err := mm.RunMigrations(ctx)
	require.Error(t, err)
	assert.Equal(t, NoTableErr, Classify(err))

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	count, err := m.GetDB().NewSelect().Model((*account)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInitDB(t *testing.T) {
	ctx := context.Background()
	RegisterModel((*account)(nil), 1)
	t.Cleanup(func() { _ = CloseDB() })

	db, err := InitDB(sqliteConfig(t))
	require.NoError(t, err)
	assert.Same(t, db, GetDB())
	assert.NotNil(t, GetManager())
	assert.True(t, GetHealthStatus(ctx).Healthy)
	assert.NotZero(t, GetDatabaseStats().MaxOpenConns)
	require.NoError(t, RunMigrations(ctx))

	_, err = db.NewInsert().Model(&account{Name: "bank"}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, CloseDB())
	assert.Nil(t, GetDB())
	assert.Nil(t, GetManager())
	assert.False(t, GetHealthStatus(ctx).Healthy)
	assert.Equal(t, &DBStats{}, GetDatabaseStats())
	assert.Error(t, RunMigrations(ctx))
}

func TestInitDBRejects(t *testing.T) {
	_, err := InitDB(nil)
	assert.Error(t, err)

	cfg := sqliteConfig(t)
	cfg.Connection.Type = "oracle"
	_, err = InitDB(cfg)
	assert.Error(t, err)
	assert.Nil(t, GetDB())
}

func TestSlowQueryHook(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	hook := newSlowQueryHook(10*time.Millisecond, logger)

	fast := &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()}
	hook.AfterQuery(ctx, fast)
	assert.Empty(t, logger.Messages())

	slow := &bun.QueryEvent{Query: "SELECT 2", StartTime: time.Now().Add(-time.Second)}
	hook.AfterQuery(ctx, slow)
	assert.Equal(t, []string{"Slow query"}, logger.Messages())

	SetQuerySilent(true)
	hook.AfterQuery(ctx, slow)
	SetQuerySilent(false)
	assert.Len(t, logger.Messages(), 1)

	t.Setenv(SlowQueryEnv, "0")
	hook.AfterQuery(ctx, slow)
	assert.Len(t, logger.Messages(), 1)
}

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields())
	assert.Equal(t, "", formatFields("dangling"))
	assert.Equal(t, " table=products id=7", formatFields("table", "products", "id", 7))
	assert.Equal(t, " a=1", formatFields("a", 1, "b"))
}
