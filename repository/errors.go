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

package repository

import "errors"

var (
	// ErrInvalidArgument is returned before any I/O when a required argument
	// (storage session, entity, query options, sort key) is missing or invalid.
	ErrInvalidArgument = errors.New("repository: invalid argument")

	// ErrNotFound is returned by Update when no row has the entity's key.
	// Delete reports the same condition as false instead.
	ErrNotFound = errors.New("repository: entity not found")
)
