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


// Bulk-seeds a catalogue from a JSON-lines file of
// {"track": ..., "artist": ..., "lyrics": ...} objects. Lyrics come from
// the file, so no lyrics provider credentials are needed.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/lyrica"
	"github.com/poiesic/lyrica/ingestion"
	"github.com/poiesic/lyrica/providers"
)

type seedTrack struct {
	Track  string `json:"track"`
	Artist string `json:"artist"`
	Lyrics string `json:"lyrics"`
}

var (
	seedFileName = flag.String("src", "", "JSON-lines file of seed tracks (required)")
	dbPath       = flag.String("db", "./catalogue_db", "path to BadgerDB catalogue directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// noFetchProvider satisfies the pipeline's provider requirement; seeding
// always supplies lyrics explicitly.
type noFetchProvider struct{}

func (noFetchProvider) FetchLyrics(ctx context.Context, track, artist string) (string, string, error) {
	return "", artist, nil
}

var _ providers.LyricsProvider = noFetchProvider{}

// tracksFromFile returns an iterator over seed tracks in a file,
// skipping blank lines.
func tracksFromFile(filename string) (iter.Seq2[seedTrack, error], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(seedTrack, error) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var track seedTrack
			if err := json.Unmarshal(line, &track); err != nil {
				if !yield(seedTrack{}, err) {
					return
				}
				continue
			}
			if !yield(track, nil) {
				return
			}
		}
	}, nil
}

func seed(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq2[seedTrack, error]) error {
	var ingested, skipped int
	for track, err := range source {
		if err != nil {
			slog.Warn("skipping malformed line", "err", err)
			skipped++
			continue
		}

		res, err := pipeline.IngestLyrics(ctx, track.Track, track.Artist, track.Lyrics)
		if err != nil {
			slog.Warn("skipping track", "track", track.Track, "artist", track.Artist, "err", err)
			skipped++
			continue
		}

		slog.Info("seeded", "track", track.Track, "artist", track.Artist, "outcome", res.Outcome.String())
		ingested++
	}

	fmt.Printf("Seeded %d tracks, skipped %d\n", ingested, skipped)
	return nil
}

func main() {
	if *seedFileName == "" {
		fmt.Fprintln(os.Stderr, "usage: seeder -src tracks.jsonl [-db ./catalogue_db]")
		os.Exit(2)
	}

	db, err := lyrica.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ingester, err := db.NewIngestionPipeline(noFetchProvider{})
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	source, err := tracksFromFile(*seedFileName)
	if err != nil {
		panic(err)
	}

	if err := seed(context.Background(), ingester, source); err != nil {
		panic(err)
	}
}
