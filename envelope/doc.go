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


// Package envelope implements the encrypted request and response envelope.
//
// Both API operations exchange a single opaque token: URL-safe base64 over
// an AES-256-GCM sealed payload with the 12-byte nonce prepended. The same
// shared key seals responses and opens requests.
package envelope
