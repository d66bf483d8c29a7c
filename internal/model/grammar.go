package model

// GrammarForms are the sex-conditioned words used when composing replies.
// Handlers look the record up once per reply instead of branching inline.
type GrammarForms struct {
	Subject   string // "he" / "she" / "they"
	Object    string // "him" / "her" / "them"
	SleepVerb string // "slept"
	AwakeAdj  string // "awake"
	ChildWord string // "boy" / "girl" / "little one"
}

var grammarBySex = map[ChildSex]GrammarForms{
	SexMale: {
		Subject:   "he",
		Object:    "him",
		SleepVerb: "slept",
		AwakeAdj:  "awake",
		ChildWord: "boy",
	},
	SexFemale: {
		Subject:   "she",
		Object:    "her",
		SleepVerb: "slept",
		AwakeAdj:  "awake",
		ChildWord: "girl",
	},
	SexUnspecified: {
		Subject:   "they",
		Object:    "them",
		SleepVerb: "slept",
		AwakeAdj:  "awake",
		ChildWord: "little one",
	},
}

// Grammar maps a child sex to its grammatical forms.
func Grammar(sex ChildSex) GrammarForms {
	if g, ok := grammarBySex[sex]; ok {
		return g
	}
	return grammarBySex[SexUnspecified]
}
