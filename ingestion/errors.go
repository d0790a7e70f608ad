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


package ingestion

import "errors"

var (
	// ErrTrackRepositoryRequired is returned when a track repository is not provided.
	ErrTrackRepositoryRequired = errors.New("track repository required")

	// ErrLyricsProviderRequired is returned when a lyrics provider is not provided.
	ErrLyricsProviderRequired = errors.New("lyrics provider required")

	// ErrBuilderRequired is returned when a fingerprint builder is not provided.
	ErrBuilderRequired = errors.New("fingerprint builder required")

	// ErrIndexRequired is returned when an ANN index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrIDFCacheRequired is returned when an IDF cache is not provided.
	ErrIDFCacheRequired = errors.New("idf cache required")
)
