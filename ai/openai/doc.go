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


// Package openai provides production implementations of the ai interfaces.
//
// This package implements ai.AIProvider using the langchaingo client against
// any OpenAI-compatible API (OpenAI, Ollama, LocalAI, vLLM). It supplies the
// two embedding services used for fingerprint construction and an LLM-backed
// emotion classifier that scores lyrics against the emotion vocabulary.
//
// The classifier prompts for strict JSON and repairs common formatting
// mistakes before parsing, retrying up to three times on malformed output.
package openai
