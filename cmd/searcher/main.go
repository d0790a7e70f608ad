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


// Runs a similarity query against a seeded catalogue from the command
// line, bypassing the HTTP layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/lyrica"
)

var (
	dbPath = flag.String("db", "./catalogue_db", "path to BadgerDB catalogue directory")
	track  = flag.String("track", "", "track name (required)")
	artist = flag.String("artist", "", "artist name (required)")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	if *track == "" || *artist == "" {
		fmt.Fprintln(os.Stderr, "usage: searcher -track NAME -artist NAME [-db ./catalogue_db]")
		os.Exit(2)
	}

	db, err := lyrica.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := db.Start(ctx); err != nil {
		panic(err)
	}

	searcher, err := db.NewSearcher()
	if err != nil {
		panic(err)
	}

	results, err := searcher.FindSimilar(ctx, *track, *artist)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d similar tracks\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %q by %s [%.2f] (sbert %.2f, semantic %.2f, emotion %.2f)\n",
			i+1, hit.Track, hit.Artist, hit.Similarity,
			hit.SbertSimilarity, hit.CosineSemantic, hit.EmotionSim)
	}
}
