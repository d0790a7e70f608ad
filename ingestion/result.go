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

import "github.com/poiesic/lyrica/core"

// Outcome describes what an ingestion did with the catalogue.
type Outcome int

const (
	// OutcomeCreated means the track was not catalogued before.
	OutcomeCreated Outcome = iota

	// OutcomeUnchanged means the stored lyrics hash matched and nothing
	// was recomputed.
	OutcomeUnchanged

	// OutcomeUpdated means the lyrics changed and the record was
	// refingerprinted and reindexed.
	OutcomeUpdated
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Result is the product of one ingestion call.
type Result struct {
	Outcome Outcome
	Record  *core.TrackRecord
}
