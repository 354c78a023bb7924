package lang

import "fmt"

// PartOfSpeech tags a DictionaryItem with its grammatical role. Noun and verb
// roles carry sub-kinds; the code set is closed.
type PartOfSpeech int

const (
	POSUnknown PartOfSpeech = iota
	POSNoun
	POSNounAction
	POSNounCreature
	POSNounObject
	POSNounPerson
	POSNounPlace
	POSNounQuality
	POSNounSpatial
	POSNounTemporal
	POSNounTrait
	POSVerb
	POSVerbAction
	POSVerbState
	POSAdjective
	POSAdverb
	POSPronoun
	POSPreposition
	POSConjunction
	POSInterjection
	POSDeterminer
	POSNumeric
	POSDate
	POSTime
)

var posCodes = map[PartOfSpeech]string{
	POSNoun:         "N",
	POSNounAction:   "N-ACT",
	POSNounCreature: "N-CRE",
	POSNounObject:   "N-OBJ",
	POSNounPerson:   "N-PER",
	POSNounPlace:    "N-PLC",
	POSNounQuality:  "N-QOF",
	POSNounSpatial:  "N-SPA",
	POSNounTemporal: "N-TEM",
	POSNounTrait:    "N-TRA",
	POSVerb:         "V",
	POSVerbAction:   "V-ACT",
	POSVerbState:    "V-STA",
	POSAdjective:    "ADJ",
	POSAdverb:       "ADV",
	POSPronoun:      "PRO",
	POSPreposition:  "PREP",
	POSConjunction:  "CONJ",
	POSInterjection: "INTJ",
	POSDeterminer:   "DET",
	POSNumeric:      "NUM",
	POSDate:         "DATE",
	POSTime:         "TIME",
}

var posByCode = func() map[string]PartOfSpeech {
	m := make(map[string]PartOfSpeech, len(posCodes))
	for pos, code := range posCodes {
		m[code] = pos
	}
	return m
}()

// Code returns the trigger-word suffix code for the part of speech, or the
// empty string for POSUnknown.
func (p PartOfSpeech) Code() string { return posCodes[p] }

func (p PartOfSpeech) String() string {
	if p == POSUnknown {
		return "unknown"
	}
	if code, ok := posCodes[p]; ok {
		return code
	}
	return fmt.Sprintf("invalid(%d)", int(p))
}

// ParsePOSCode resolves a `^CODE` trigger-word suffix. Unknown codes are an
// invalid-operation condition for the caller.
func ParsePOSCode(code string) (PartOfSpeech, error) {
	if pos, ok := posByCode[code]; ok {
		return pos, nil
	}
	return POSUnknown, fmt.Errorf("unknown part-of-speech code %q", code)
}

// Tense marks the temporal sense of an item.
type Tense int

const (
	TenseUnknown Tense = iota
	TensePast
	TensePresent
	TenseFuture
)

var tenseCodes = map[Tense]string{
	TensePast:    "PAST",
	TensePresent: "PRES",
	TenseFuture:  "FUT",
}

// Code returns the key marker for the tense, empty for TenseUnknown.
func (t Tense) Code() string { return tenseCodes[t] }

// ParseTenseCode is the inverse of Code. The empty string is TenseUnknown.
func ParseTenseCode(code string) (Tense, error) {
	if code == "" {
		return TenseUnknown, nil
	}
	for t, c := range tenseCodes {
		if c == code {
			return t, nil
		}
	}
	return TenseUnknown, fmt.Errorf("unknown tense code %q", code)
}

// Plurality marks grammatical number.
type Plurality int

const (
	PluralityUnknown Plurality = iota
	PluralitySingular
	PluralityPlural
)

var pluralityCodes = map[Plurality]string{
	PluralitySingular: "S",
	PluralityPlural:   "P",
}

// Code returns the key marker for the plurality, empty for PluralityUnknown.
func (p Plurality) Code() string { return pluralityCodes[p] }

// ParsePluralityCode is the inverse of Code. The empty string is
// PluralityUnknown.
func ParsePluralityCode(code string) (Plurality, error) {
	if code == "" {
		return PluralityUnknown, nil
	}
	for p, c := range pluralityCodes {
		if c == code {
			return p, nil
		}
	}
	return PluralityUnknown, fmt.Errorf("unknown plurality code %q", code)
}
