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


package fingerprint

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kljensen/snowball"

	"github.com/poiesic/lyrica/ai"
)

// Theme extraction parameters.
const (
	// DefaultTopK caps the number of themes attached to a track.
	DefaultTopK = 5

	// DefaultSimilarityThreshold is the minimum centroid cosine similarity
	// for the semantic stage to accept a theme outright.
	DefaultSimilarityThreshold = 0.5

	// minKeywordMatches is how many keyword hits the rule stage requires
	// before it attributes a theme to the lyrics.
	minKeywordMatches = 2

	// snippetWords bounds the portion of the lyrics embedded for the
	// semantic stage.
	snippetWords = 512
)

// themeVocabulary maps each theme to its keyword list. Keywords are mixed
// English and Russian; each is stemmed with the matching language stemmer
// when the reverse index is built.
var themeVocabulary = map[string][]string{
	"love": {
		"love", "heart", "kiss", "darling", "tender", "romance", "beloved",
		"любовь", "сердце", "поцелуй", "милый", "нежность", "романтика", "любимый",
	},
	"heartbreak": {
		"goodbye", "tears", "broken", "leave", "apart", "regret", "hurt",
		"прощай", "слёзы", "разбитый", "уходить", "расставание", "боль", "обида",
	},
	"loneliness": {
		"alone", "lonely", "empty", "silence", "nobody", "isolation",
		"одиночество", "одинокий", "пустота", "тишина", "никто",
	},
	"friendship": {
		"friend", "together", "trust", "loyal", "brother", "sister",
		"друг", "вместе", "доверие", "верный", "брат", "сестра",
	},
	"party": {
		"party", "dance", "night", "club", "drink", "celebrate", "music",
		"вечеринка", "танцевать", "ночь", "клуб", "выпить", "праздновать",
	},
	"money": {
		"money", "rich", "gold", "cash", "diamond", "hustle", "fame",
		"деньги", "богатый", "золото", "бриллиант", "слава",
	},
	"freedom": {
		"free", "freedom", "fly", "wings", "escape", "road", "wild",
		"свобода", "свободный", "летать", "крылья", "побег", "дорога",
	},
	"death": {
		"death", "die", "grave", "funeral", "ghost", "heaven", "soul",
		"смерть", "умирать", "могила", "похороны", "призрак", "небеса", "душа",
	},
	"war": {
		"war", "fight", "soldier", "battle", "enemy", "weapon", "blood",
		"война", "бой", "солдат", "битва", "враг", "оружие", "кровь",
	},
	"nature": {
		"sun", "moon", "river", "ocean", "forest", "mountain", "rain", "sky",
		"солнце", "луна", "река", "океан", "лес", "горы", "дождь", "небо",
	},
	"faith": {
		"god", "pray", "faith", "angel", "sin", "blessed", "spirit",
		"бог", "молитва", "вера", "ангел", "грех", "благословение", "дух",
	},
	"nostalgia": {
		"remember", "memory", "yesterday", "childhood", "past", "old",
		"помнить", "память", "вчера", "детство", "прошлое", "старый",
	},
	"betrayal": {
		"lie", "betray", "cheat", "fake", "knife", "trust", "deceive",
		"ложь", "предательство", "измена", "фальшивый", "обман",
	},
	"hope": {
		"hope", "dream", "tomorrow", "light", "rise", "believe", "shine",
		"надежда", "мечта", "завтра", "свет", "верить", "сиять",
	},
	"family": {
		"mother", "father", "home", "child", "family", "son", "daughter",
		"мама", "папа", "дом", "ребёнок", "семья", "сын", "дочь",
	},
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{3,}`)

// stemWord stems a single token, selecting the Russian stemmer for words
// containing Cyrillic characters and the English stemmer otherwise.
func stemWord(word string) string {
	lang := "english"
	for _, r := range word {
		if unicode.Is(unicode.Cyrillic, r) {
			lang = "russian"
			break
		}
	}
	stem, err := snowball.Stem(word, lang, true)
	if err != nil || stem == "" {
		return strings.ToLower(word)
	}
	return stem
}

// ThemeExtractor attributes themes to lyrics in two stages. A rule stage
// matches stemmed keywords against the vocabulary, and a semantic stage
// compares a lyrics embedding against per-theme centroid embeddings. Results
// from both stages merge in first-seen order up to the top-k cap.
type ThemeExtractor struct {
	embedder ai.Embedder

	topK      int
	threshold float32

	// theme -> stem set, built once from themeVocabulary
	stemmedMap map[string]map[string]struct{}
	themeOrder []string

	centroidOnce sync.Once
	centroidErr  error
	centroids    map[string][]float32
}

// NewThemeExtractor builds an extractor over the built-in vocabulary.
// Centroid embeddings are computed lazily on first use so construction
// never touches the embedding service.
func NewThemeExtractor(embedder ai.Embedder) *ThemeExtractor {
	ex := &ThemeExtractor{
		embedder:   embedder,
		topK:       DefaultTopK,
		threshold:  DefaultSimilarityThreshold,
		stemmedMap: make(map[string]map[string]struct{}, len(themeVocabulary)),
		themeOrder: make([]string, 0, len(themeVocabulary)),
	}

	for theme := range themeVocabulary {
		ex.themeOrder = append(ex.themeOrder, theme)
	}
	sort.Strings(ex.themeOrder)

	for _, theme := range ex.themeOrder {
		stems := make(map[string]struct{})
		for _, word := range themeVocabulary[theme] {
			stems[stemWord(word)] = struct{}{}
		}
		ex.stemmedMap[theme] = stems
	}

	return ex
}

// warmCentroids embeds each theme's keyword list once and caches the result.
func (ex *ThemeExtractor) warmCentroids(ctx context.Context) error {
	ex.centroidOnce.Do(func() {
		texts := make([]string, len(ex.themeOrder))
		for i, theme := range ex.themeOrder {
			texts[i] = strings.Join(themeVocabulary[theme], " ")
		}

		vecs, err := ex.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			ex.centroidErr = fmt.Errorf("embedding theme centroids: %w", err)
			return
		}
		if len(vecs) != len(ex.themeOrder) {
			ex.centroidErr = fmt.Errorf("embedding theme centroids: got %d vectors for %d themes", len(vecs), len(ex.themeOrder))
			return
		}

		ex.centroids = make(map[string][]float32, len(ex.themeOrder))
		for i, theme := range ex.themeOrder {
			ex.centroids[theme] = vecs[i]
		}
	})
	return ex.centroidErr
}

// Extract returns up to topK themes for the given lyrics. Rule-stage themes
// come first, then semantic-stage themes, duplicates removed.
func (ex *ThemeExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	ruleBased := ex.matchKeywords(text)

	semBased, err := ex.matchCentroids(ctx, text)
	if err != nil {
		return nil, err
	}

	themes := make([]string, 0, ex.topK)
	seen := make(map[string]struct{}, ex.topK)
	for _, t := range append(ruleBased, semBased...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		themes = append(themes, t)
		if len(themes) >= ex.topK {
			break
		}
	}
	return themes, nil
}

// matchKeywords runs the rule stage: stem every token and count hits per
// theme, keeping themes with at least minKeywordMatches hits.
func (ex *ThemeExtractor) matchKeywords(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	counter := make(map[string]int)
	for _, token := range tokens {
		stem := stemWord(token)
		for _, theme := range ex.themeOrder {
			if _, ok := ex.stemmedMap[theme][stem]; ok {
				counter[theme]++
			}
		}
	}

	matched := make([]string, 0, len(counter))
	for _, theme := range ex.themeOrder {
		if counter[theme] >= minKeywordMatches {
			matched = append(matched, theme)
		}
	}
	return matched
}

// matchCentroids runs the semantic stage: embed a snippet of the lyrics and
// keep every theme whose centroid similarity clears the threshold. When no
// theme clears it, the top-k most similar themes are returned instead.
func (ex *ThemeExtractor) matchCentroids(ctx context.Context, text string) ([]string, error) {
	if err := ex.warmCentroids(ctx); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) > snippetWords {
		words = words[:snippetWords]
	}
	emb, err := ex.embedder.EmbedText(ctx, strings.Join(words, " "))
	if err != nil {
		return nil, fmt.Errorf("embedding lyrics for theme matching: %w", err)
	}

	type themeSim struct {
		theme string
		sim   float32
	}
	sims := make([]themeSim, 0, len(ex.themeOrder))
	for _, theme := range ex.themeOrder {
		sims = append(sims, themeSim{theme, Cosine(emb, ex.centroids[theme])})
	}

	matched := make([]string, 0, ex.topK)
	for _, ts := range sims {
		if ts.sim >= ex.threshold {
			matched = append(matched, ts.theme)
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	sort.SliceStable(sims, func(i, j int) bool { return sims[i].sim > sims[j].sim })
	if len(sims) > ex.topK {
		sims = sims[:ex.topK]
	}
	for _, ts := range sims {
		matched = append(matched, ts.theme)
	}
	return matched, nil
}
