// Package repository provides a generic repository built on Bun. Audit
// fields are stamped according to the capabilities an entity implements,
// and soft-deleted rows are hidden from list and page reads.
package repository
