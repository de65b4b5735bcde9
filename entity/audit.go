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

package entity

import "time"

// Column names used by the audit mixins.
const (
	CreatedOnColumn    = "created_on"
	CreatedByIDColumn  = "created_by_id"
	ModifiedOnColumn   = "modified_on"
	ModifiedByIDColumn = "modified_by_id"
	DeletedOnColumn    = "deleted_on"
	DeletedByIDColumn  = "deleted_by_id"
)

// Created carries creation audit columns. Embed it by value in a bun model
// to make the model Creatable.
type Created[K comparable] struct {
	CreatedOn   time.Time `bun:"created_on,notnull" json:"created_on"`
	CreatedByID K         `bun:"created_by_id,nullzero" json:"created_by_id"`
}

func (c *Created[K]) GetCreatedOn() time.Time   { return c.CreatedOn }
func (c *Created[K]) SetCreatedOn(on time.Time) { c.CreatedOn = on }
func (c *Created[K]) GetCreatedByID() K         { return c.CreatedByID }
func (c *Created[K]) SetCreatedByID(id K)       { c.CreatedByID = id }

// Modified carries last-modification audit columns.
type Modified[K comparable] struct {
	ModifiedOn   *time.Time `bun:"modified_on" json:"modified_on,omitempty"`
	ModifiedByID *K         `bun:"modified_by_id" json:"modified_by_id,omitempty"`
}

func (m *Modified[K]) GetModifiedOn() *time.Time  { return m.ModifiedOn }
func (m *Modified[K]) SetModifiedOn(on time.Time) { m.ModifiedOn = &on }
func (m *Modified[K]) GetModifiedByID() *K        { return m.ModifiedByID }
func (m *Modified[K]) SetModifiedByID(id K)       { m.ModifiedByID = &id }

// Deleted carries soft-delete audit columns. It must not carry bun's
// soft_delete tag; the repository filters on deleted_on itself.
type Deleted[K comparable] struct {
	DeletedOn   *time.Time `bun:"deleted_on" json:"deleted_on,omitempty"`
	DeletedByID *K         `bun:"deleted_by_id" json:"deleted_by_id,omitempty"`
}

func (d *Deleted[K]) GetDeletedOn() *time.Time  { return d.DeletedOn }
func (d *Deleted[K]) SetDeletedOn(on time.Time) { d.DeletedOn = &on }
func (d *Deleted[K]) GetDeletedByID() *K        { return d.DeletedByID }
func (d *Deleted[K]) SetDeletedByID(id K)       { d.DeletedByID = &id }
func (d *Deleted[K]) IsDeleted() bool           { return d.DeletedOn != nil }

// Audited bundles all three audit mixins.
type Audited[K comparable] struct {
	Created[K]
	Modified[K]
	Deleted[K]
}
