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

import (
	"time"

	"github.com/tomoncle/ledger/database"
	"github.com/tomoncle/ledger/usercontext"
)

type config[K comparable] struct {
	users  usercontext.UserContext[K]
	now    func() time.Time
	logger database.Logger
}

// Option configures a BaseRepository.
type Option[K comparable] func(*config[K])

// WithUserContext sets the source of actor ids for the *ByID audit fields.
// Without one only timestamps are stamped.
func WithUserContext[K comparable](uc usercontext.UserContext[K]) Option[K] {
	return func(c *config[K]) { c.users = uc }
}

// WithClock overrides the time source used for audit timestamps. Returned
// values are converted to UTC.
func WithClock[K comparable](now func() time.Time) Option[K] {
	return func(c *config[K]) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger overrides the database package logger.
func WithLogger[K comparable](logger database.Logger) Option[K] {
	return func(c *config[K]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig[K comparable](opts []Option[K]) *config[K] {
	c := &config[K]{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = database.GetLogger()
	}
	return c
}
