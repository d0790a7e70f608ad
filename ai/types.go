package ai

// EmotionLabels defines the emotion class vocabulary, in vector index order.
// The set follows the GoEmotions taxonomy used by the multilingual
// classification models this service targets.
var EmotionLabels = []string{
	"admiration",
	"amusement",
	"anger",
	"annoyance",
	"approval",
	"caring",
	"confusion",
	"curiosity",
	"desire",
	"disappointment",
	"disapproval",
	"disgust",
	"embarrassment",
	"excitement",
	"fear",
	"gratitude",
	"grief",
	"joy",
	"love",
	"nervousness",
	"optimism",
	"pride",
	"realization",
	"relief",
	"remorse",
	"sadness",
	"surprise",
	"neutral",
}

// EmotionIndex returns the vector index of a label, or -1 if unknown.
func EmotionIndex(label string) int {
	for i, l := range EmotionLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// Polarity reduces an emotion distribution to a signed scalar:
// positive-class mass minus negative-class mass (joy - sadness).
// Returns 0 for vectors shorter than the label vocabulary.
func Polarity(dist []float32) float32 {
	joy := EmotionIndex("joy")
	sad := EmotionIndex("sadness")
	if joy >= len(dist) || sad >= len(dist) {
		return 0
	}
	return dist[joy] - dist[sad]
}
