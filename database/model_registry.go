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
	"sort"
	"sync"
)

var defaultRegistry = NewModelRegistry()

// Model is a Bun model whose table is created by migrations. Priority
// orders creation; lower values first.
type Model struct {
	Instance interface{}
	Priority int
}

// ModelRegistry keeps models in a deterministic order.
type ModelRegistry struct {
	mu     sync.RWMutex
	models []Model
}

func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{}
}

// Register adds a model pointer such as (*Order)(nil).
func (r *ModelRegistry) Register(instance interface{}, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, Model{Instance: instance, Priority: priority})
}

// Models returns a copy ordered by priority. Ties keep registration order.
func (r *ModelRegistry) Models() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Model, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result
}

// Instances returns the model instances in priority order.
func (r *ModelRegistry) Instances() []interface{} {
	models := r.Models()
	instances := make([]interface{}, len(models))
	for i, m := range models {
		instances[i] = m.Instance
	}
	return instances
}

// RegisterModel adds a model to the default registry.
func RegisterModel(instance interface{}, priority int) {
	defaultRegistry.Register(instance, priority)
}

// RegisteredModels returns the default registry's models in priority order.
func RegisteredModels() []Model {
	return defaultRegistry.Models()
}

func registeredInstances() []interface{} {
	return defaultRegistry.Instances()
}
