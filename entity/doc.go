// Package entity defines the identity contract and the optional audit
// capabilities a repository stamps on create, update and delete.
package entity
