package services

import "strings"

// Gender labels emitted on profiles. Anything the lexicon cannot place stays
// an empty string; downstream consumers treat that as unknown.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// InferGenderFromName guesses a gender label from a given first name. The
// lookup is lexicon-based and deliberately conservative: ambiguous or unknown
// names return "".
func InferGenderFromName(firstName string) string {
	name := strings.ToLower(strings.TrimSpace(firstName))
	if name == "" {
		return ""
	}
	// "Mary Ann" and similar compound names key on the first token.
	if idx := strings.IndexAny(name, " -"); idx > 0 {
		name = name[:idx]
	}
	return genderLexicon[name]
}

// genderLexicon maps lowercase given names to a gender label. Names that are
// genuinely ambiguous in US usage (jordan, taylor, casey) are omitted.
var genderLexicon = map[string]string{
	"james":       GenderMale,
	"john":        GenderMale,
	"robert":      GenderMale,
	"michael":     GenderMale,
	"william":     GenderMale,
	"david":       GenderMale,
	"richard":     GenderMale,
	"joseph":      GenderMale,
	"thomas":      GenderMale,
	"charles":     GenderMale,
	"christopher": GenderMale,
	"daniel":      GenderMale,
	"matthew":     GenderMale,
	"anthony":     GenderMale,
	"mark":        GenderMale,
	"donald":      GenderMale,
	"steven":      GenderMale,
	"paul":        GenderMale,
	"andrew":      GenderMale,
	"joshua":      GenderMale,
	"kenneth":     GenderMale,
	"kevin":       GenderMale,
	"brian":       GenderMale,
	"george":      GenderMale,
	"timothy":     GenderMale,
	"ronald":      GenderMale,
	"edward":      GenderMale,
	"jason":       GenderMale,
	"jeffrey":     GenderMale,
	"ryan":        GenderMale,
	"jacob":       GenderMale,
	"gary":        GenderMale,
	"nicholas":    GenderMale,
	"eric":        GenderMale,
	"jonathan":    GenderMale,
	"stephen":     GenderMale,
	"larry":       GenderMale,
	"justin":      GenderMale,
	"scott":       GenderMale,
	"brandon":     GenderMale,
	"benjamin":    GenderMale,
	"samuel":      GenderMale,
	"gregory":     GenderMale,
	"frank":       GenderMale,
	"alexander":   GenderMale,
	"raymond":     GenderMale,
	"patrick":     GenderMale,
	"jack":        GenderMale,
	"dennis":      GenderMale,
	"peter":       GenderMale,
	"adam":        GenderMale,
	"rajesh":      GenderMale,
	"amit":        GenderMale,
	"carlos":      GenderMale,
	"jose":        GenderMale,
	"juan":        GenderMale,
	"luis":        GenderMale,
	"ahmed":       GenderMale,
	"mohammed":    GenderMale,
	"wei":         GenderMale,

	"mary":      GenderFemale,
	"patricia":  GenderFemale,
	"jennifer":  GenderFemale,
	"linda":     GenderFemale,
	"elizabeth": GenderFemale,
	"barbara":   GenderFemale,
	"susan":     GenderFemale,
	"jessica":   GenderFemale,
	"sarah":     GenderFemale,
	"karen":     GenderFemale,
	"lisa":      GenderFemale,
	"nancy":     GenderFemale,
	"betty":     GenderFemale,
	"margaret":  GenderFemale,
	"sandra":    GenderFemale,
	"ashley":    GenderFemale,
	"kimberly":  GenderFemale,
	"emily":     GenderFemale,
	"donna":     GenderFemale,
	"michelle":  GenderFemale,
	"carol":     GenderFemale,
	"amanda":    GenderFemale,
	"dorothy":   GenderFemale,
	"melissa":   GenderFemale,
	"deborah":   GenderFemale,
	"stephanie": GenderFemale,
	"rebecca":   GenderFemale,
	"sharon":    GenderFemale,
	"laura":     GenderFemale,
	"cynthia":   GenderFemale,
	"kathleen":  GenderFemale,
	"amy":       GenderFemale,
	"angela":    GenderFemale,
	"shirley":   GenderFemale,
	"anna":      GenderFemale,
	"brenda":    GenderFemale,
	"pamela":    GenderFemale,
	"emma":      GenderFemale,
	"nicole":    GenderFemale,
	"helen":     GenderFemale,
	"samantha":  GenderFemale,
	"katherine": GenderFemale,
	"christine": GenderFemale,
	"debra":     GenderFemale,
	"rachel":    GenderFemale,
	"catherine": GenderFemale,
	"janet":     GenderFemale,
	"ruth":      GenderFemale,
	"maria":     GenderFemale,
	"heather":   GenderFemale,
	"diane":     GenderFemale,
	"virginia":  GenderFemale,
	"julie":     GenderFemale,
	"joyce":     GenderFemale,
	"victoria":  GenderFemale,
	"olivia":    GenderFemale,
	"kelly":     GenderFemale,
	"christina": GenderFemale,
	"jane":      GenderFemale,
	"priya":     GenderFemale,
	"fatima":    GenderFemale,
	"sofia":     GenderFemale,
}
