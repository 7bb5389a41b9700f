package vocab

// BuiltinVersion identifies the vocabulary compiled into the binary. A
// config-supplied vocabulary replaces it wholesale; the two are never merged.
const BuiltinVersion = "builtin-1"

func builtinTerms() []string {
	return []string{
		"fever", "cough", "sore_throat", "runny_nose", "stuffy_nose",
		"sneezing", "headache", "nausea", "vomiting", "diarrhea",
		"abdominal_pain", "abdominal_cramps", "fatigue", "rash", "itchy_rash",
		"shortness_of_breath", "wheezing", "chest_pain", "severe_bleeding",
		"fainting", "dizziness", "slurred_speech", "face_droop",
		"one_sided_weakness", "dry_mouth", "thirst", "sticky_saliva",
		"bad_breath", "difficulty_swallowing", "cracked_lips",
	}
}

func builtinSynonyms() map[string]string {
	return map[string]string{
		"feverish":                 "fever",
		"high temperature":         "fever",
		"dyspnea":                  "shortness_of_breath",
		"sob":                      "shortness_of_breath",
		"short of breath":          "shortness_of_breath",
		"trouble breathing":        "shortness_of_breath",
		"severe trouble breathing": "shortness_of_breath",
		"passed out":               "fainting",
		"fainted":                  "fainting",
		"loss of consciousness":    "fainting",
		"lightheaded":              "dizziness",
		"xerostomia":               "dry_mouth",
		"stomach ache":             "abdominal_pain",
		"stomach pain":             "abdominal_pain",
		"belly pain":               "abdominal_pain",
		"throwing up":              "vomiting",
		"weakness on one side":     "one_sided_weakness",
		"tired":                    "fatigue",
		"exhausted":                "fatigue",
	}
}

// Builtin returns the compiled-in vocabulary. It panics only if the builtin
// tables themselves are inconsistent, which is a programming defect.
func Builtin() *Vocabulary {
	v, err := New(BuiltinVersion, builtinTerms(), builtinSynonyms())
	if err != nil {
		panic("vocab: builtin tables are inconsistent: " + err.Error())
	}
	return v
}
