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


package lastfm

// allowedGenres is the closed genre vocabulary. Last.fm tags are freeform
// ("seen live", "favourite songs of 2019"), so everything outside this set
// is discarded before tags reach the catalogue.
var allowedGenres = map[string]struct{}{}

func init() {
	for _, g := range genreList {
		allowedGenres[g] = struct{}{}
	}
}

var genreList = []string{
	// Core
	"pop", "rock", "hip-hop", "rap", "jazz", "blues", "electronic", "metal", "punk", "funk", "soul",
	"rnb", "r&b", "classical", "reggae", "disco", "folk", "indie", "alternative", "house", "techno",
	"trance", "dubstep", "edm", "instrumental", "ambient", "lo-fi", "lofi", "grunge", "hard rock",
	"soft rock", "psychedelic", "experimental", "emo", "ska", "drum and bass", "dnb", "new wave",
	"industrial", "chillout", "synthpop", "trip-hop", "garage", "dance", "dance-pop", "electropop",
	"minimal", "post-rock", "metalcore", "death metal", "black metal", "heavy metal", "progressive",
	"neo soul", "dream pop", "dreamy", "gospel", "opera", "world", "ethnic", "latin", "reggaeton",
	"afrobeat", "trap", "phonk", "boom bap", "chanson", "k-pop", "j-pop", "c-pop", "soundtrack",
	"score", "musical", "hardcore", "acoustic", "melodic", "epic", "ballad", "romantic", "melancholy",
	"symphonic", "jazz rap", "pop rap", "alternative rock", "classic rock", "progressive rock",
	"nu metal", "grime", "noise", "emo rap", "indietronica", "future bass", "hyperpop", "chiptune",
	"vaporwave", "glitch", "breakcore", "downtempo", "tech house", "deep house", "bassline", "uk garage",
	"jungle", "gabber", "hardstyle", "shoegaze", "post-punk", "coldwave", "math rock", "sludge",
	"slowcore", "americana", "bluegrass", "swamp rock", "trap metal", "cloud rap",

	// Regional and traditional
	"flamenco", "tango", "samba", "bossa nova", "mariachi", "cumbia", "nordic folk", "celtic", "balkan",
	"greek folk", "turkish folk", "arabic", "klezmer", "african", "asian", "indian", "bollywood",
	"arabesque", "fado", "rebetiko", "persian", "mongolian throat singing", "jewish", "chinese traditional",
	"soca", "salsa", "merengue", "bachata", "dancehall", "highlife", "zouk", "polka", "cajun", "zydeco",

	// Electronic and dance
	"psytrance", "goa trance", "idm", "breakbeat", "electro swing", "future house", "big room",
	"progressive house", "trancecore", "industrial techno", "tech trance", "eurodance", "eurobeat",
	"hands up", "happy hardcore", "nightcore", "synthwave", "outrun", "retrowave", "witch house",
	"acid house", "tropical house", "future garage", "moombahton", "big beat", "drumstep",

	// Metal and heavy scenes
	"thrash metal", "doom metal", "sludge metal", "post-metal", "speed metal", "power metal",
	"viking metal", "folk metal", "symphonic metal", "melodic death metal", "blackgaze",
	"metalstep", "groove metal", "deathcore", "mathcore", "technical death metal",
	"progressive metal", "industrial metal", "gothic metal",

	// Hip-hop adjacent
	"g-funk", "west coast", "east coast", "southern rap", "drill", "latin trap", "underground rap",
	"conscious rap", "meme rap", "battle rap", "crunk", "hyphy", "bounce", "miami bass", "trap soul",

	// Pop and indie
	"bubblegum pop", "teen pop", "pop punk", "baroque pop", "indie pop",
	"electro pop", "power pop", "art pop", "glam rock", "britpop", "pop rock", "indie rock",

	// Rock and alternative scenes
	"arena rock", "garage rock", "space rock", "stoner rock", "folk rock", "blues rock", "punk rock",
	"emo rock", "post-hardcore", "screamo", "noise rock", "psych rock", "sludge rock", "southern rock",
	"rap rock", "crossover thrash", "krautrock", "post-grunge", "gothic rock",

	// Soundtracks and instrumental
	"anime", "anime soundtrack", "video game music", "vgm", "game soundtrack", "cinematic",
	"film score", "instrumental hip-hop", "orchestral", "trailer music", "epic music", "background music",

	// Jazz subgenres
	"bebop", "hard bop", "smooth jazz", "jazz fusion", "modal jazz", "free jazz",

	// Classical
	"baroque", "romantic classical", "contemporary classical",

	// Hybrid and other
	"spoken word", "a cappella", "field recordings", "avant-garde", "experimental hip-hop",
	"meditative", "healing", "new age", "relaxation", "sound healing", "nature sounds", "asmr",
	"tiktok music", "meme music", "satanic metal", "occult rock",
}
