package domain

import "strings"

// friendlyFeats maps UD "Key=Value" feature pairs to learner-friendly
// descriptions, per display language. Features absent from the table are
// dropped rather than shown raw.
var friendlyFeats = map[string]map[string]string{
	"en": {
		"Polarity=Neg":     "negation",
		"Mood=Ind":         "indicative mood",
		"Number[abs]=Plur": "plural obj",
		"Number[abs]=Sing": "singular obj",
		"Number[erg]=Sing": "singular sub",
		"Number[erg]=Plur": "plural sub",
		"Person[abs]=1":    "1st person obj (me/us)",
		"Person[abs]=2":    "2nd person obj (you)",
		"Person[abs]=3":    "3rd person obj (it/them)",
		"Person[erg]=1":    "1st person sub (I)",
		"Person[erg]=2":    "2nd person sub (you)",
		"Person[erg]=3":    "3rd person sub (he/she/it)",
		"VerbForm=Fin":     "conjugated",
		"VerbForm=Inf":     "infinitive/base form",
		"Aspect=Imp":       "habitual/ongoing",
		"Aspect=Perf":      "completed act",
		"Case=Abs":         "absolutive (sub/obj)",
		"Case=Erg":         "ergative (transitive sub)",
		"Case=Dat":         "dative (indir obj)",
		"Case=Gen":         "genitive",
		"Case=Loc":         "locative",
		"Case=Ine":         "inessive (inside/within)",
		"Definite=Def":     "definite (the)",
		"Definite=Ind":     "indefinite (a/an)",
		"Number=Plur":      "plural",
		"Number=Sing":      "singular",
	},
	"eu": {
		"Polarity=Neg":     "ezeztapena",
		"Mood=Ind":         "adierazpen modua",
		"Number[abs]=Plur": "objektu plurala",
		"Number[abs]=Sing": "objektu singularra",
		"Number[erg]=Sing": "subjektu singularra",
		"Number[erg]=Plur": "subjektu plurala",
		"Person[abs]=1":    "1. pertsona obj (ni/gu)",
		"Person[abs]=2":    "2. pertsona obj (zu/zuek)",
		"Person[abs]=3":    "3. pertsona obj (hura/haiek)",
		"Person[erg]=1":    "1. pertsona subj (nik)",
		"Person[erg]=2":    "2. pertsona subj (zuk)",
		"Person[erg]=3":    "3. pertsona subj (hark)",
		"VerbForm=Fin":     "aditz jokatua",
		"VerbForm=Inf":     "aditz jokatu gabea",
		"Aspect=Imp":       "ohikoa/jarraian",
		"Aspect=Perf":      "burutua",
		"Case=Abs":         "absolutiboa (nor)",
		"Case=Erg":         "ergatiboa (nork)",
		"Case=Dat":         "datiboa (nori)",
		"Case=Gen":         "genitiboa (noren)",
		"Case=Loc":         "lekuzkoa",
		"Case=Ine":         "inesiboa (non)",
		"Definite=Def":     "mugatu (-a/-ak)",
		"Definite=Ind":     "mugagabea",
		"Number=Plur":      "plurala",
		"Number=Sing":      "singularra",
	},
}

// quirks are per-word overrides for forms the analyzer tags unhelpfully.
// A quirk replaces the whole feature list for that form.
var quirks = map[string]map[string]string{
	"en": {"euskal": "combining prefix"},
	"eu": {"euskal": "konbinazio aurrizkia"},
}

// DescribeFeatures rewrites a raw UD feature string (pipe-separated
// "Key=Value" pairs) as human-readable descriptions in the given display
// language. Unknown display languages fall back to English. Never
// returns nil.
func DescribeFeatures(lang, form, feats string) []string {
	table, ok := friendlyFeats[lang]
	if !ok {
		table = friendlyFeats["en"]
	}
	quirkTable, ok := quirks[lang]
	if !ok {
		quirkTable = quirks["en"]
	}

	descs := []string{}
	if quirk, ok := quirkTable[strings.ToLower(form)]; ok {
		return append(descs, quirk)
	}
	if feats == "" {
		return descs
	}
	for _, feat := range strings.Split(feats, "|") {
		if friendly, ok := table[feat]; ok {
			descs = append(descs, friendly)
		}
	}
	return descs
}
