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


package search

import "errors"

var (
	// ErrTrackRepositoryRequired is returned when a track repository is not provided.
	ErrTrackRepositoryRequired = errors.New("track repository required")

	// ErrIndexRequired is returned when an ANN index is not provided.
	ErrIndexRequired = errors.New("ann index required")

	// ErrIDFCacheRequired is returned when an IDF cache is not provided.
	ErrIDFCacheRequired = errors.New("idf cache required")

	// ErrNotFingerprinted is returned when the source track exists but has
	// no complete fingerprint yet.
	ErrNotFingerprinted = errors.New("track has no fingerprint")
)
