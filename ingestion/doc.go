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


// Package ingestion orchestrates the cataloguing of tracks.
//
// The Pipeline resolves lyrics (stored text first, provider second),
// computes the fingerprint on a bounded worker pool, then propagates the
// record in a fixed order: catalogue write, ANN index update, IDF cache
// refresh. The lyrics content hash decides whether anything is recomputed
// at all; an unchanged hash never reaches the model services.
package ingestion
