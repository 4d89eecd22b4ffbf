package extract

import (
	"fmt"
	"sort"
)

// Kind says how the lines following a section label are accumulated.
type Kind int

const (
	// KindList collects dash-prefixed lines as individual items.
	KindList Kind = iota
	// KindText concatenates plain lines into a single paragraph.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Section declares one marker the extractor looks for in a model reply.
type Section struct {
	Key   string // result key, e.g. "must_have_technical"
	Label string // marker text searched for in each line
	Kind  Kind
	Title string // human-readable bucket name used by renderers
}

// Well-known result keys.
const (
	KeyMustHaveTechnical = "must_have_technical"
	KeyMustHaveSoft      = "must_have_soft"
	KeyGoodHaveTechnical = "good_have_technical"
	KeyGoodHaveSoft      = "good_have_soft"
	KeyMustHave          = "must_have"
	KeyGoodHave          = "good_have"
	KeyExplanation       = "explanation"
)

// FourBucket splits skills by requirement level and by technical/soft.
var FourBucket = []Section{
	{Key: KeyMustHaveTechnical, Label: "Must Have Technical Skills:", Kind: KindList, Title: "must-have technical skills"},
	{Key: KeyMustHaveSoft, Label: "Must Have Soft Skills:", Kind: KindList, Title: "must-have soft skills"},
	{Key: KeyGoodHaveTechnical, Label: "Good to Have Technical Skills:", Kind: KindList, Title: "good-to-have technical skills"},
	{Key: KeyGoodHaveSoft, Label: "Good to Have Soft Skills:", Kind: KindList, Title: "good-to-have soft skills"},
	{Key: KeyExplanation, Label: "Brief Explanation:", Kind: KindText, Title: "explanation"},
}

// TwoBucket only splits skills by requirement level.
var TwoBucket = []Section{
	{Key: KeyMustHave, Label: "Must Have Skills:", Kind: KindList, Title: "must-have skills"},
	{Key: KeyGoodHave, Label: "Good to Have Skills:", Kind: KindList, Title: "good-to-have skills"},
	{Key: KeyExplanation, Label: "Brief Explanation:", Kind: KindText, Title: "explanation"},
}

var variants = map[string][]Section{
	"four": FourBucket,
	"two":  TwoBucket,
}

// Vocabulary returns the section list registered under variant.
func Vocabulary(variant string) ([]Section, error) {
	sections, ok := variants[variant]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (want one of %v)", variant, VariantNames())
	}
	out := make([]Section, len(sections))
	copy(out, sections)
	return out, nil
}

// VariantNames lists the registered variants in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
