package analyzer

// Cue categories reported by the cue engine.
const (
	CueCategoryClickbait   = "clickbait"
	CueCategorySensational = "sensational"
	CueCategoryConspiracy  = "conspiracy"
	CueCategoryHedging     = "hedging"
)

// DefaultCueLexicon returns the curated credibility cue lexicon. Terms are
// matched case-insensitively with accents stripped, so plain lowercase
// spellings are enough here.
func DefaultCueLexicon() map[string][]string {
	return map[string][]string{
		CueCategoryClickbait: {
			"you won't believe",
			"what happens next",
			"this one trick",
			"one weird trick",
			"doctors hate",
			"will shock you",
			"number one reason",
			"before it's deleted",
			"the truth about",
			"they don't want you to know",
			"secret revealed",
			"must see",
			"gone wrong",
			"jaw dropping",
			"click here",
		},
		CueCategorySensational: {
			"bombshell",
			"explosive",
			"slams",
			"destroys",
			"eviscerates",
			"outrage",
			"fury",
			"meltdown",
			"chaos erupts",
			"terrifying",
			"horrifying",
			"catastrophic",
			"apocalyptic",
			"stunning revelation",
			"shock claim",
		},
		CueCategoryConspiracy: {
			"deep state",
			"false flag",
			"cover up",
			"cover-up",
			"wake up sheeple",
			"do your own research",
			"mainstream media won't tell you",
			"new world order",
			"crisis actor",
			"big pharma doesn't want",
			"the elites",
			"globalist agenda",
			"plandemic",
			"chemtrails",
			"mind control",
		},
		CueCategoryHedging: {
			"sources say",
			"some people say",
			"many are saying",
			"people are saying",
			"reportedly",
			"allegedly",
			"it is believed",
			"rumored",
			"unconfirmed reports",
			"insiders claim",
			"critics claim",
			"experts fear",
			"could possibly",
			"may or may not",
		},
	}
}
