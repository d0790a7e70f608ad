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


// Package index provides approximate-nearest-neighbour candidate retrieval
// over fused fingerprint vectors.
//
// The three fingerprint signals are fused into a single vector: each
// segment is unit-normalized, scaled by its weight, concatenated, and the
// result normalized again. Fused vectors live in an HNSW graph; search
// returns candidate track ids for the re-ranking stage, which recomputes
// exact per-signal similarities.
package index
