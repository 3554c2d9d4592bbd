package domain

import "regexp"

var (
	// trainRe splits a designation into operator, category and run number, e.g.
	// "NWB RS12345" -> NWB, RS, 12345. The operator group is lazy so that a
	// category token directly at the start is never swallowed as an operator.
	trainRe = regexp.MustCompile(`(\w+?)?? ?(RS|STB|IRE|RE|RB|IC|ICE|EC|ECE|TGV|NJ|RJ|S)? ?(\d+\w*)`)
	// longDistanceRe matches high-speed and international categories anywhere in
	// the raw designation: IC, ICE, EC, ECE, TGV, RJ.
	longDistanceRe = regexp.MustCompile(`(ICE?|TGV|ECE?|RJ).*`)
)

// TrainDesignation is a parsed train label. Empty fields are absent.
type TrainDesignation struct {
	ThirdParty string `json:"thirdParty,omitempty"`
	TrainType  string `json:"trainType,omitempty"`
	TrainID    string `json:"trainId,omitempty"`
}

// IsZero reports whether nothing could be parsed from the designation.
func (d TrainDesignation) IsZero() bool {
	return d == TrainDesignation{}
}

// ParsedTrain bundles a designation with its long-distance classification.
type ParsedTrain struct {
	TrainDesignation
	LongDistance bool `json:"longDistance"`
}

// DesignationParser turns a raw train label into a ParsedTrain.
type DesignationParser interface {
	Parse(raw string) ParsedTrain
}

// DesignationParserFunc adapts a plain function to DesignationParser.
type DesignationParserFunc func(raw string) ParsedTrain

func (f DesignationParserFunc) Parse(raw string) ParsedTrain { return f(raw) }

// DefaultParser parses designations without caching.
var DefaultParser DesignationParser = DesignationParserFunc(ParseTrain)

// ParseTrain parses a designation and classifies it as long-distance or not.
func ParseTrain(raw string) ParsedTrain {
	return ParsedTrain{
		TrainDesignation: ParseTrainDesignation(raw),
		LongDistance:     IsLongDistance(raw),
	}
}

// ParseTrainDesignation extracts operator, canonical category and run number from
// a raw designation. Input that matches nothing yields the zero value.
func ParseTrainDesignation(raw string) TrainDesignation {
	m := trainRe.FindStringSubmatch(raw)
	if m == nil {
		return TrainDesignation{}
	}
	thirdParty, rawType, number := m[1], m[2], m[3]

	return TrainDesignation{
		ThirdParty: thirdParty,
		TrainType:  canonicalTrainType(thirdParty, rawType),
		TrainID:    trainID(thirdParty, rawType, number),
	}
}

// IsLongDistance reports whether the raw designation names a high-speed or
// international category. The canonical category is not consulted.
func IsLongDistance(raw string) bool {
	return longDistanceRe.MatchString(raw)
}

// canonicalTrainType applies operator overrides to the captured category.
// Rule order matters.
func canonicalTrainType(thirdParty, rawType string) string {
	switch {
	case thirdParty == "NWB" && rawType == "RS", thirdParty == "BSB":
		return "S"
	case thirdParty == "FLX":
		return "IR"
	case thirdParty != "":
		return "RB"
	case rawType == "ECE":
		return "EC"
	default:
		return rawType
	}
}

// trainID keeps the "RS" prefix for NWB so their S-Bahn runs stay distinguishable
// from regular RB numbers.
func trainID(thirdParty, rawType, number string) string {
	if thirdParty == "NWB" && rawType == "RS" {
		return rawType + number
	}
	return number
}
