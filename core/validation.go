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

import (
	"fmt"
	"strings"
)

// MinLyricsWords is the minimum word count for a lyrics text to be accepted.
// Shorter texts are rejected before any embedding call is made.
const MinLyricsWords = 10

// ValidateTrackKey validates the (track, artist) request parameters.
//
// Validation rules:
//   - Track must not be empty after whitespace trimming
//   - Artist must not be empty after whitespace trimming
func ValidateTrackKey(track, artist string) error {
	if strings.TrimSpace(track) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTrack)
	}
	if strings.TrimSpace(artist) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyArtist)
	}
	return nil
}

// ValidateLyrics enforces the minimum word count precondition of the
// fingerprint builder. Callers must reject short lyrics before building.
func ValidateLyrics(lyrics string) error {
	if words := len(strings.Fields(lyrics)); words < MinLyricsWords {
		return fmt.Errorf("%w: %w (%d words)", ErrValidation, ErrLyricsTooShort, words)
	}
	return nil
}
