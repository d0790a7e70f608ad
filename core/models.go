package core

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Track record IDs are derived from the normalized (track, artist) key,
// so the same song always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// HashLyrics computes the 128-bit content hash of a lyrics text, hex encoded.
// The hash is the sole change-detection trigger: identical lyrics are never
// reprocessed.
func HashLyrics(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeKeyPart lowercases and collapses whitespace in a track or artist
// name so that lookups are insensitive to casing and stray spaces.
func NormalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TrackKey returns the canonical "(track,artist)" tuple used for keying
// records and deriving their IDs.
func TrackKey(track, artist string) string {
	return "(" + NormalizeKeyPart(track) + "," + NormalizeKeyPart(artist) + ")"
}

// IDForTrack derives the record ID for a (track, artist) pair.
func IDForTrack(track, artist string) ID {
	return IDFromContent(TrackKey(track, artist))
}

// Fingerprint is the multi-signal representation derived from a lyrics text.
// All vectors are stored pre-normalized to unit L2 norm; an empty text yields
// zero-vector sentinels.
type Fingerprint struct {
	Semantic []float32 // chunk-averaged deep semantic embedding
	Rephrase []float32 // fine-grained rephrasing embedding
	Emotion  []float32 // emotion class distribution, L2 normalized
	Polarity float32   // P(joy) - P(sadness) from the raw distribution
	Themes   []string  // closed-vocabulary theme labels, first-seen order
	Hash     string    // content hash of the source lyrics
}

// Complete reports whether all three sub-vectors are present.
// Only complete fingerprints participate in the ANN index.
func (f *Fingerprint) Complete() bool {
	return f != nil && len(f.Semantic) > 0 && len(f.Rephrase) > 0 && len(f.Emotion) > 0
}

// TrackRecord represents one catalogued song, keyed by the normalized
// (track, artist) pair.
type TrackRecord struct {
	Id          ID
	Track       string
	Artist      string
	Lyrics      string
	LyricsHash  string
	SemanticVec []float32
	RephraseVec []float32
	EmotionVec  []float32
	Emotion     float32  // scalar polarity derived from EmotionVec
	Themes      []string // never nil after ingestion, may be empty
	Genres      []string // free-text provider tags, never nil after ingestion
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fingerprint assembles the record's stored signals into a Fingerprint.
func (r *TrackRecord) Fingerprint() *Fingerprint {
	return &Fingerprint{
		Semantic: r.SemanticVec,
		Rephrase: r.RephraseVec,
		Emotion:  r.EmotionVec,
		Polarity: r.Emotion,
		Themes:   r.Themes,
		Hash:     r.LyricsHash,
	}
}

// WordCount returns the number of whitespace-separated words in the lyrics.
func (r *TrackRecord) WordCount() int {
	return len(strings.Fields(r.Lyrics))
}

// ScoredTrack is one re-ranked similarity result. All similarity values are
// percentages in [0, 100) after the x100 scaling.
type ScoredTrack struct {
	Track           string  `json:"track"`
	Artist          string  `json:"artist"`
	Similarity      float64 `json:"similarity"`
	SbertSimilarity float64 `json:"sbert_similarity"`
	CosineSemantic  float64 `json:"cosine_semantic"`
	EmotionSim      float64 `json:"emotion_sim"`
	ThemeTFIDF      float64 `json:"theme_tfidf"`
	GenreTFIDF      float64 `json:"genre_tfidf"`
	OverlapRatio    float64 `json:"overlap_ratio"`
}

// AuditEntry is one append-only audit log row. Entries are write-once and
// never mutated.
type AuditEntry struct {
	Id         ID
	Timestamp  time.Time
	Address    string
	Operation  string
	Status     string
	DeviceInfo string
}
