// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Error taxonomy. Handlers map these onto wire responses; everything else
// degrades to a generic internal error at the boundary.
var (
	// ErrValidation indicates a request was rejected before any expensive work.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates no record exists for the requested key.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable indicates an external model or provider failed
	// after retries.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrIntegrity indicates an authenticity failure (envelope tag, hash
	// mismatch). Fatal to the request, never retried automatically.
	ErrIntegrity = errors.New("integrity failure")
)

// Validation detail errors, all wrapping ErrValidation at the call site.
var (
	// ErrEmptyTrack indicates the track name is missing or blank.
	ErrEmptyTrack = errors.New("track name cannot be empty")

	// ErrEmptyArtist indicates the artist name is missing or blank.
	ErrEmptyArtist = errors.New("artist cannot be empty")

	// ErrLyricsTooShort indicates the lyrics are below the minimum word count.
	ErrLyricsTooShort = errors.New("lyrics too short or not found")
)
