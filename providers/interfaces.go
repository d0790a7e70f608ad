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


package providers

import "context"

// LyricsProvider fetches raw lyrics for a track. Implementations return
// the lyrics text and the artist name as the upstream catalogue spells it,
// which may differ from the requested artist.
type LyricsProvider interface {
	FetchLyrics(ctx context.Context, track, artist string) (lyrics, actualArtist string, err error)
}

// TagProvider fetches genre tags for a track. Tags are lowercased and
// filtered to the known genre vocabulary; the result may be empty.
type TagProvider interface {
	FetchTags(ctx context.Context, track, artist string) ([]string, error)
}

// PopularityProvider disambiguates cover versions: given a track and a
// candidate artist it returns the artist of the most listened-to version.
type PopularityProvider interface {
	MostPopularArtist(ctx context.Context, track, artist string) (string, error)
}
