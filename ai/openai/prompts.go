package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/lyrica/ai"
)

const classifierResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "emotions": {
      "type": "object",
      "additionalProperties": {
        "type": "number",
        "minimum": 0,
        "maximum": 1
      }
    }
  },
  "required": ["emotions"],
  "additionalProperties": false
}`

const classifierPromptTemplate = `Score the emotional content of the given song lyrics and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Keys of the "emotions" object must match exactly one of the listed emotion labels: %s.
- Each value is an independent probability from 0.0 (emotion absent) to 1.0 (emotion dominant). This is
  multi-label scoring, not a distribution: values do not need to sum to 1.
- Score every emotion that is clearly present. Omit labels that are plainly absent; omitted labels count as 0.
- Judge the lyrics as a whole, not individual lines. Lyrics may be in any language.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:

{"emotions": {"joy": 0.7, "love": 0.85, "sadness": 0.1}}`

// buildClassifierPrompt assembles the system prompt with the emotion vocabulary.
func buildClassifierPrompt() string {
	return fmt.Sprintf(classifierPromptTemplate, classifierResponseSchema, strings.Join(ai.EmotionLabels, ", "))
}
