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


// Package search provides similarity ranking over catalogued tracks.
//
// The Searcher type implements a multi-stage ranking algorithm:
//   - candidate retrieval from the ANN index over fused fingerprints
//   - a hard filter requiring shared genre and shared theme with the source
//   - exact per-signal cosine scoring with rarity-weighted tag bonuses
//   - length normalization, a score ceiling, and top-N deduplication
//
// Scores are reported as percentages rounded to two decimals.
package search
