package search

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/idf"
	"github.com/poiesic/lyrica/index"
	"github.com/poiesic/lyrica/storage"
)

// Config holds the scoring hyperparameters.
type Config struct {
	// Similarity weights for the raw score. Must mirror the fusion weights
	// used by the ANN index so ranking and recall agree.
	SbertWeight    float64
	SemanticWeight float64
	EmotionWeight  float64

	// Multiplicative bonus coefficients.
	ThemeBonus   float64
	GenreBonus   float64
	OverlapBonus float64

	// LengthNormalization caps the word count used for the length factor.
	LengthNormalization int

	// CandidateK is how many neighbours the ANN index is asked for.
	CandidateK int

	// MaxCandidates caps the candidate pool after hard filtering.
	MaxCandidates int

	// TopN is the number of results returned after deduplication.
	TopN int
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() Config {
	return Config{
		SbertWeight:         0.35,
		SemanticWeight:      0.35,
		EmotionWeight:       0.30,
		ThemeBonus:          0.25,
		GenreBonus:          0.50,
		OverlapBonus:        0.10,
		LengthNormalization: 200,
		CandidateK:          50,
		MaxCandidates:       30,
		TopN:                5,
	}
}

// scoreCeiling keeps final similarities strictly below a perfect match.
const scoreCeiling = 0.9999

// Searcher ranks catalogued tracks by similarity to a source track. ANN
// candidates are hard-filtered on genre and theme overlap, then re-scored
// with exact per-signal cosines plus rarity-weighted tag bonuses.
type Searcher struct {
	tracks storage.TrackRepository
	ann    *index.Index
	idf    *idf.Cache
	config Config
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithConfig overrides the scoring configuration.
func WithConfig(config Config) Option {
	return func(s *Searcher) error {
		s.config = config
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	tracks storage.TrackRepository,
	ann *index.Index,
	idfCache *idf.Cache,
	opts ...Option,
) (*Searcher, error) {
	if tracks == nil {
		return nil, ErrTrackRepositoryRequired
	}
	if ann == nil {
		return nil, ErrIndexRequired
	}
	if idfCache == nil {
		return nil, ErrIDFCacheRequired
	}

	s := &Searcher{
		tracks: tracks,
		ann:    ann,
		idf:    idfCache,
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar returns the top similar tracks for a catalogued source track.
// When filtering leaves no candidates the result is an empty list, not an
// error.
func (s *Searcher) FindSimilar(ctx context.Context, track, artist string) ([]*core.ScoredTrack, error) {
	return s.FindSimilarWithMonitor(ctx, track, artist, nil)
}

// FindSimilarWithMonitor runs the search with per-stage monitoring callbacks.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, track, artist string, monitor SearchMonitor) ([]*core.ScoredTrack, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(track, artist)

	source, err := s.tracks.GetTrackByKey(ctx, track, artist)
	if err != nil {
		return nil, err
	}
	if !source.Fingerprint().Complete() {
		return nil, ErrNotFingerprinted
	}

	candidateIds, err := s.ann.Search(source.SemanticVec, source.RephraseVec, source.EmotionVec, s.config.CandidateK)
	if err != nil {
		s.logger.Error("candidate retrieval failed", "track", track, "artist", artist, "err", err)
		return nil, err
	}
	monitor.AfterCandidateRetrieval(candidateIds)

	neighbors, err := s.filterCandidates(ctx, source, candidateIds)
	if err != nil {
		return nil, err
	}
	monitor.AfterHardFilter(neighbors)

	snap := s.idf.Snapshot()
	results := make([]*core.ScoredTrack, 0, len(neighbors))
	for _, cand := range neighbors {
		scored := s.score(source, cand, snap)
		monitor.Scored(cand, scored)
		results = append(results, scored)
	}

	final := topUnique(results, s.config.TopN)
	monitor.Finish(final)
	return final, nil
}

// filterCandidates retrieves candidate records in ANN order and applies the
// hard filter: the source id is dropped, and every candidate must share at
// least one genre and one theme with the source. The survivors are capped
// at MaxCandidates.
func (s *Searcher) filterCandidates(ctx context.Context, source *core.TrackRecord, ids []core.ID) ([]*core.TrackRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := s.tracks.GetTracks(ctx, ids...)
	if err != nil {
		s.logger.Error("candidate record retrieval failed", "count", len(ids), "err", err)
		return nil, err
	}
	byID := make(map[core.ID]*core.TrackRecord, len(records))
	for _, rec := range records {
		byID[rec.Id] = rec
	}

	srcGenres := toSet(source.Genres)
	srcThemes := toSet(source.Themes)

	neighbors := make([]*core.TrackRecord, 0, s.config.MaxCandidates)
	seen := make(map[core.ID]struct{}, len(ids))
	for _, id := range ids {
		if id == source.Id {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		cand, ok := byID[id]
		if !ok || len(cand.SemanticVec) == 0 {
			continue
		}
		if !intersects(srcGenres, cand.Genres) {
			continue
		}
		if !intersects(srcThemes, cand.Themes) {
			continue
		}
		neighbors = append(neighbors, cand)
		seen[id] = struct{}{}
		if len(neighbors) >= s.config.MaxCandidates {
			break
		}
	}
	return neighbors, nil
}

// score computes the final similarity of one candidate against the source.
func (s *Searcher) score(source, cand *core.TrackRecord, snap *idf.Snapshot) *core.ScoredTrack {
	cosSim := float64(fingerprint.Cosine(source.SemanticVec, cand.SemanticVec))
	sbSim := float64(fingerprint.Cosine(source.RephraseVec, cand.RephraseVec))
	emoSim := float64(fingerprint.Cosine(source.EmotionVec, cand.EmotionVec))

	themeTFIDF := tagTFIDF(source.Themes, cand.Themes, snap.Theme)
	genreTFIDF := tagTFIDF(source.Genres, cand.Genres, snap.Genre)
	overlapRatio := overlap(source.Genres, cand.Genres)

	rawScore := s.config.SbertWeight*sbSim + s.config.SemanticWeight*cosSim + s.config.EmotionWeight*emoSim
	bonus := 1 + s.config.ThemeBonus*themeTFIDF + s.config.GenreBonus*genreTFIDF + s.config.OverlapBonus*overlapRatio

	lengthCap := s.config.LengthNormalization
	words := cand.WordCount()
	if words > lengthCap {
		words = lengthCap
	}
	lengthFactor := float64(words) / float64(lengthCap)

	score := rawScore * bonus * lengthFactor
	if score < 0 {
		score = 0
	}
	if score > scoreCeiling {
		score = scoreCeiling
	}

	return &core.ScoredTrack{
		Track:           cand.Track,
		Artist:          cand.Artist,
		Similarity:      asPercent(score),
		SbertSimilarity: asPercent(math.Max(sbSim, 0)),
		CosineSemantic:  asPercent(math.Max(cosSim, 0)),
		EmotionSim:      asPercent(emoSim),
		ThemeTFIDF:      asPercent(themeTFIDF),
		GenreTFIDF:      asPercent(genreTFIDF),
		OverlapRatio:    asPercent(overlapRatio),
	}
}

// topUnique sorts by similarity descending and keeps the first result per
// (track, artist) pair, up to n.
func topUnique(results []*core.ScoredTrack, n int) []*core.ScoredTrack {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	type pair struct{ track, artist string }
	seen := make(map[pair]struct{}, n)
	final := make([]*core.ScoredTrack, 0, n)
	for _, item := range results {
		p := pair{item.Track, item.Artist}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		final = append(final, item)
		if len(final) == n {
			break
		}
	}
	return final
}

// tagTFIDF is the rarity-weighted tag agreement: the summed weight of the
// shared tags over the summed weight of all tags either track carries.
func tagTFIDF(a, b []string, weight func(string) float64) float64 {
	setA, setB := toSet(a), toSet(b)

	var common, union float64
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			common += weight(tag)
		}
		union += weight(tag)
	}
	for tag := range setB {
		if _, ok := setA[tag]; !ok {
			union += weight(tag)
		}
	}

	if union == 0 {
		return 0
	}
	return common / union
}

// overlap is the plain Jaccard ratio of two tag lists.
func overlap(a, b []string) float64 {
	setA, setB := toSet(a), toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	common := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			common++
		}
	}
	union := len(setA) + len(setB) - common
	return float64(common) / float64(union)
}

// asPercent scales to a percentage rounded to two decimals.
func asPercent(v float64) float64 {
	return math.Round(v*100*100) / 100
}

func toSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func intersects(set map[string]struct{}, tags []string) bool {
	for _, t := range tags {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
