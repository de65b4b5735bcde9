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

// Package usercontext resolves the identifier of the actor performing the
// current operation, for audit stamping.
package usercontext

import "context"

// UserContext returns the current actor's key. The boolean is false when no
// actor is established (anonymous request, background job); that is a valid
// answer, not a failure. Implementations must be cheap and safe to call
// repeatedly within one operation.
type UserContext[K comparable] interface {
	CurrentUserID(ctx context.Context) (K, bool)
}

// Func adapts a plain function to UserContext.
type Func[K comparable] func(ctx context.Context) (K, bool)

func (f Func[K]) CurrentUserID(ctx context.Context) (K, bool) { return f(ctx) }

// Static always reports the same actor.
func Static[K comparable](id K) UserContext[K] {
	return Func[K](func(context.Context) (K, bool) { return id, true })
}

// Anonymous never reports an actor.
func Anonymous[K comparable]() UserContext[K] {
	return Func[K](func(context.Context) (K, bool) {
		var zero K
		return zero, false
	})
}

type userIDKey[K comparable] struct{}

// WithUserID returns a copy of ctx carrying id as the current actor.
func WithUserID[K comparable](ctx context.Context, id K) context.Context {
	return context.WithValue(ctx, userIDKey[K]{}, id)
}

// UserID reads the actor stored by WithUserID.
func UserID[K comparable](ctx context.Context) (K, bool) {
	id, ok := ctx.Value(userIDKey[K]{}).(K)
	return id, ok
}

// FromContext returns a UserContext backed by the actor stored on the
// operation's context with WithUserID.
func FromContext[K comparable]() UserContext[K] {
	return Func[K](UserID[K])
}
