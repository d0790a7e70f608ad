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


package index

import "github.com/poiesic/lyrica/fingerprint"

// Weights scales each fingerprint segment before concatenation. The three
// weights express the relative influence of the signals on candidate
// recall; they are echoed by the re-ranking stage for the exact scores.
type Weights struct {
	Semantic float32
	Rephrase float32
	Emotion  float32
}

// DefaultWeights is the production weighting of the fused vector.
var DefaultWeights = Weights{
	Semantic: 0.35,
	Rephrase: 0.35,
	Emotion:  0.30,
}

// Fuse combines the three fingerprint vectors into one search vector.
// Each segment is normalized to unit length, scaled by its weight, and
// concatenated in fixed order; the concatenation is normalized again so
// cosine distance over fused vectors is well defined.
func Fuse(w Weights, semantic, rephrase, emotion []float32) []float32 {
	semantic = fingerprint.Normalize(semantic)
	rephrase = fingerprint.Normalize(rephrase)
	emotion = fingerprint.Normalize(emotion)

	fused := make([]float32, 0, len(semantic)+len(rephrase)+len(emotion))
	for _, v := range semantic {
		fused = append(fused, w.Semantic*v)
	}
	for _, v := range rephrase {
		fused = append(fused, w.Rephrase*v)
	}
	for _, v := range emotion {
		fused = append(fused, w.Emotion*v)
	}
	return fingerprint.Normalize(fused)
}
