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


// Package server exposes the HTTP API.
//
// Both operations are POSTs carrying `{"data": <token>}` where the token
// is the sealed envelope of the inner JSON, and both answer in the same
// shape. Errors are returned as plain JSON with a generic message; the
// detailed cause stays in the server log.
package server
