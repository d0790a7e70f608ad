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


// Package fingerprint computes the per-track signal bundle used for
// similarity search.
//
// A fingerprint consists of four signals derived from the raw lyrics:
//
//   - a deep semantic vector, built by chunking the lyrics into ~200-word
//     windows, embedding each with a retrieval prefix, and mean-pooling
//   - a rephrasing vector over the head of the lyrics, robust to paraphrase
//   - an emotion probability distribution with a derived polarity scalar
//   - a list of themes from a two-stage keyword plus centroid extractor
//
// Fingerprints are memoized by lyrics content hash, so ingesting the same
// lyrics twice performs no model calls the second time.
package fingerprint
