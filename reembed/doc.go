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


// Package reembed recomputes the fingerprints of every catalogued track.
//
// This is a maintenance operation for model changes: swapping the
// embedding or classifier models invalidates every stored vector, so the
// whole catalogue is rebuilt from the stored lyrics, batch by batch, with
// progress reporting. The content-hash shortcut does not apply here; the
// point is to recompute vectors for text that has not changed.
package reembed
