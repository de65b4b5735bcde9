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

import (
	"reflect"
	"sync"
	"time"
)

// Entity is a record with a stable identity of a caller-chosen key type.
type Entity[K comparable] interface {
	GetID() K
}

// Ptr constrains P to the pointer type of E implementing Entity[K]. It lets
// generic code allocate E values and still call the identity methods.
type Ptr[E any, K comparable] interface {
	*E
	Entity[K]
}

// Creatable is implemented by entities that record who created them and when.
type Creatable[K comparable] interface {
	GetCreatedOn() time.Time
	SetCreatedOn(on time.Time)
	GetCreatedByID() K
	SetCreatedByID(id K)
}

// Modifiable is implemented by entities that record their last modification.
// Both values are absent until the first update.
type Modifiable[K comparable] interface {
	GetModifiedOn() *time.Time
	SetModifiedOn(on time.Time)
	GetModifiedByID() *K
	SetModifiedByID(id K)
}

// Deletable is implemented by entities that are soft-deleted instead of
// physically removed. Both values are absent until the first delete.
type Deletable[K comparable] interface {
	GetDeletedOn() *time.Time
	SetDeletedOn(on time.Time)
	GetDeletedByID() *K
	SetDeletedByID(id K)
	IsDeleted() bool
}

// Capabilities reports which audit contracts an entity type satisfies.
type Capabilities struct {
	Creatable  bool
	Modifiable bool
	Deletable  bool
}

// None reports whether the type implements no audit capability at all.
func (c Capabilities) None() bool {
	return !c.Creatable && !c.Modifiable && !c.Deletable
}

type capabilityKey struct {
	entity reflect.Type
	key    reflect.Type
}

var capabilityCache sync.Map

// Detect returns the capabilities of *E for key type K. The result is
// computed once per (entity, key) type pair and cached for the process.
func Detect[E any, K comparable, P Ptr[E, K]]() Capabilities {
	ck := capabilityKey{entity: reflect.TypeFor[E](), key: reflect.TypeFor[K]()}
	if caps, ok := capabilityCache.Load(ck); ok {
		return caps.(Capabilities)
	}
	var probe any = P(new(E))
	_, creatable := probe.(Creatable[K])
	_, modifiable := probe.(Modifiable[K])
	_, deletable := probe.(Deletable[K])
	caps := Capabilities{Creatable: creatable, Modifiable: modifiable, Deletable: deletable}
	actual, _ := capabilityCache.LoadOrStore(ck, caps)
	return actual.(Capabilities)
}
