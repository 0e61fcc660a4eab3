// Copyright 2025 The Bytemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bytemap

import "errors"

var (
	// ErrInvalidCapacity is returned by New when the requested capacity is
	// zero or not a power of two. The caller must pick a valid size and
	// retry.
	ErrInvalidCapacity = errors.New("bytemap: capacity must be a nonzero power of two")

	// ErrAllocFailed is returned when the allocator cannot provide a slot
	// array, either at construction or while growing. A failed growth
	// leaves the map in its previous consistent state.
	ErrAllocFailed = errors.New("bytemap: slot array allocation failed")

	// ErrNotFound is returned by Get and Delete when no equal key is
	// present. It is an expected outcome, not a failure of the map.
	ErrNotFound = errors.New("bytemap: key not found")

	// ErrStopped is returned by Apply and CloseWith when the visitor
	// halted the traversal before every occupied slot was visited.
	ErrStopped = errors.New("bytemap: iteration stopped early")
)
