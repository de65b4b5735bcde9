// Package database provisions the Bun sessions repositories run on:
// configuration, connection management for MySQL, PostgreSQL and SQLite,
// health checks, query hooks, model registration, table migrations, and
// optional classification of driver errors.
package database
