package extract

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const sampleReply = `Must Have Technical Skills:
- Python
- SQL
Good to Have Technical Skills:
- Docker
Brief Explanation:
Python and SQL are core requirements.
Docker is a bonus.`

func TestParse_FourBucketExample(t *testing.T) {
	r := Parse(sampleReply, FourBucket)

	if got := r.List(KeyMustHaveTechnical); !reflect.DeepEqual(got, []string{"Python", "SQL"}) {
		t.Errorf("must_have_technical = %v, want [Python SQL]", got)
	}
	if got := r.List(KeyGoodHaveTechnical); !reflect.DeepEqual(got, []string{"Docker"}) {
		t.Errorf("good_have_technical = %v, want [Docker]", got)
	}
	if got := r.List(KeyMustHaveSoft); len(got) != 0 {
		t.Errorf("must_have_soft = %v, want empty", got)
	}
	if got := r.List(KeyGoodHaveSoft); len(got) != 0 {
		t.Errorf("good_have_soft = %v, want empty", got)
	}
	want := "Python and SQL are core requirements. Docker is a bonus."
	if got := r.Text(KeyExplanation); got != want {
		t.Errorf("explanation = %q, want %q", got, want)
	}
}

func TestParse_NoLabelsYieldsEmptyResult(t *testing.T) {
	r := Parse("Great candidate overall.", FourBucket)

	if !r.IsEmpty() {
		t.Fatal("expected empty result for input without labels")
	}
	for _, s := range FourBucket {
		if !r.Has(s.Key) {
			t.Errorf("key %q missing from result", s.Key)
		}
	}
	if r.Text(KeyExplanation) != "" {
		t.Errorf("explanation = %q, want empty", r.Text(KeyExplanation))
	}
}

func TestParse_EmptyInput(t *testing.T) {
	r := Parse("", TwoBucket)
	if !r.IsEmpty() {
		t.Fatal("expected empty result for empty input")
	}
	if got := r.List(KeyMustHave); got == nil || len(got) != 0 {
		t.Errorf("must_have = %#v, want empty non-nil slice", got)
	}
}

func TestParse_DashWithoutContentIsSkipped(t *testing.T) {
	raw := "Must Have Skills:\n- \n-\n- Go\n--- \n"
	r := Parse(raw, TwoBucket)

	if got := r.List(KeyMustHave); !reflect.DeepEqual(got, []string{"Go"}) {
		t.Errorf("must_have = %v, want [Go]", got)
	}
}

func TestParse_StripsDashesAndSpacesBothEnds(t *testing.T) {
	raw := "Must Have Skills:\n  -   Kubernetes  \n-- C++ -\n"
	r := Parse(raw, TwoBucket)

	want := []string{"Kubernetes", "C++"}
	if got := r.List(KeyMustHave); !reflect.DeepEqual(got, want) {
		t.Errorf("must_have = %v, want %v", got, want)
	}
}

func TestParse_DashLinesIgnoredUnderText(t *testing.T) {
	raw := "Brief Explanation:\nFirst sentence.\n- not an item\nSecond sentence."
	r := Parse(raw, FourBucket)

	if got, want := r.Text(KeyExplanation), "First sentence. Second sentence."; got != want {
		t.Errorf("explanation = %q, want %q", got, want)
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}
}

func TestParse_PlainLinesIgnoredUnderList(t *testing.T) {
	raw := "Must Have Soft Skills:\nThe role needs:\n- Communication\n"
	r := Parse(raw, FourBucket)

	if got := r.List(KeyMustHaveSoft); !reflect.DeepEqual(got, []string{"Communication"}) {
		t.Errorf("must_have_soft = %v, want [Communication]", got)
	}
}

func TestParse_LinesBeforeFirstLabelDropped(t *testing.T) {
	raw := "Here is my analysis:\n- stray item\n\nMust Have Skills:\n- Go"
	r := Parse(raw, TwoBucket)

	if got := r.List(KeyMustHave); !reflect.DeepEqual(got, []string{"Go"}) {
		t.Errorf("must_have = %v, want [Go]", got)
	}
}

func TestParse_LabelMatchedAnywhereInLine(t *testing.T) {
	raw := "**1. Must Have Technical Skills:**\n- Rust\n"
	r := Parse(raw, FourBucket)

	if got := r.List(KeyMustHaveTechnical); !reflect.DeepEqual(got, []string{"Rust"}) {
		t.Errorf("must_have_technical = %v, want [Rust]", got)
	}
}

func TestParse_LabelMentionInsideExplanationSwitchesSection(t *testing.T) {
	raw := "Brief Explanation:\nSee the Must Have Soft Skills: list above.\n- Teamwork\nTrailing text."
	r := Parse(raw, FourBucket)

	if got := r.Text(KeyExplanation); got != "" {
		t.Errorf("explanation = %q, want empty", got)
	}
	if got := r.List(KeyMustHaveSoft); !reflect.DeepEqual(got, []string{"Teamwork"}) {
		t.Errorf("must_have_soft = %v, want [Teamwork]", got)
	}
}

func TestParse_LabelMatchingIsCaseSensitive(t *testing.T) {
	raw := "must have skills:\n- Go\n"
	r := Parse(raw, TwoBucket)
	if !r.IsEmpty() {
		t.Errorf("expected lowercase label to be ignored, got %d items", r.Count())
	}
}

func TestParse_RepeatedLabelAppends(t *testing.T) {
	raw := "Must Have Skills:\n- Go\nGood to Have Skills:\n- Rust\nMust Have Skills:\n- SQL\n"
	r := Parse(raw, TwoBucket)

	if got := r.List(KeyMustHave); !reflect.DeepEqual(got, []string{"Go", "SQL"}) {
		t.Errorf("must_have = %v, want [Go SQL]", got)
	}
}

func TestParse_WindowsLineEndings(t *testing.T) {
	raw := strings.ReplaceAll(sampleReply, "\n", "\r\n")
	r := Parse(raw, FourBucket)

	if got := r.List(KeyMustHaveTechnical); !reflect.DeepEqual(got, []string{"Python", "SQL"}) {
		t.Errorf("must_have_technical = %v, want [Python SQL]", got)
	}
}

func TestParse_UndeclaredKeysAbsent(t *testing.T) {
	r := Parse(sampleReply, TwoBucket)
	if r.Has(KeyMustHaveTechnical) {
		t.Error("two-bucket result should not declare must_have_technical")
	}
}

func TestResult_ListReturnsCopy(t *testing.T) {
	r := Parse(sampleReply, FourBucket)
	items := r.List(KeyMustHaveTechnical)
	items[0] = "mutated"

	if got := r.List(KeyMustHaveTechnical)[0]; got != "Python" {
		t.Errorf("result was mutated through List: got %q", got)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		sections []Section
	}{
		{"four bucket sample", sampleReply, FourBucket},
		{"four bucket no labels", "Great candidate overall.", FourBucket},
		{"four bucket multi paragraph", "Must Have Soft Skills:\n- Ownership\n- Clear writing\nBrief Explanation:\nA.\n\nB.", FourBucket},
		{"two bucket", "Must Have Skills:\n- Go\n- gRPC\nGood to Have Skills:\n- Rust\nBrief Explanation:\nSystems role.", TwoBucket},
		{"two bucket label inside explanation", "Must Have Skills:\n- Go\nBrief Explanation:\nSee Must Have Skills: above\n- Go\nMostly backend.", TwoBucket},
		{"two bucket label split across lines", "Must Have Skills:\n- Go\nBrief Explanation:\nTeams list Must Have\nSkills: Go first, then  -flags.", TwoBucket},
		{"two bucket empty", "", TwoBucket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Parse(tt.in, tt.sections)
			second := Parse(Format(first, tt.sections), tt.sections)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("round trip mismatch for %q:\nfirst:  %#v\nsecond: %#v", tt.in, first, second)
			}
		})
	}
}

func TestFormat_BreaksParagraphBeforeLabel(t *testing.T) {
	r := Parse("Brief Explanation:\nTeams list Must Have\nSkills: Go first.", TwoBucket)
	if got, want := r.Text("explanation"), "Teams list Must Have Skills: Go first."; got != want {
		t.Fatalf("explanation = %q, want %q", got, want)
	}
	out := Format(r, TwoBucket)
	if !strings.Contains(out, "Brief Explanation:\nTeams list Must Have\nSkills: Go first.\n") {
		t.Errorf("Format did not break the paragraph before the label:\n%s", out)
	}
}

func TestFormat_Layout(t *testing.T) {
	got := Format(Parse("Must Have Skills:\n- Go\nBrief Explanation:\nWhy.", TwoBucket), TwoBucket)
	want := "Must Have Skills:\n- Go\n\nGood to Have Skills:\n\nBrief Explanation:\nWhy.\n"
	if got != want {
		t.Errorf("Format =\n%q\nwant\n%q", got, want)
	}
}

func TestResult_JSONRoundTrip(t *testing.T) {
	r := Parse(sampleReply, FourBucket)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(r, decoded) {
		t.Errorf("decoded = %#v, want %#v", decoded, r)
	}
}

func TestVocabulary(t *testing.T) {
	sections, err := Vocabulary("four")
	if err != nil {
		t.Fatalf("Vocabulary(four): %v", err)
	}
	if len(sections) != 5 {
		t.Errorf("four-bucket sections = %d, want 5", len(sections))
	}

	sections[0].Label = "changed"
	if FourBucket[0].Label == "changed" {
		t.Error("Vocabulary must return a copy")
	}

	if _, err := Vocabulary("three"); err == nil {
		t.Error("expected error for unknown variant")
	}
}
