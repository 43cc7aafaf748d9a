package news

import (
	"strings"
	"testing"
)

func TestCleanTextStripsMarkup(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 0, 0)
	got := c.CleanText("<p>Rates were <b>held</b> steady.</p>")
	if got != "Rates were held steady." {
		t.Fatalf("CleanText = %q", got)
	}
}

func TestCleanTextNormalizesWhitespace(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 0, 0)
	in := "First   line.  \n\n\n\n  Second    line."
	got := c.CleanText(in)
	want := "First line.\n\nSecond line."
	if got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextRemovesBoilerplate(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 0, 0)
	in := "The story begins here.\nSUBSCRIBE TO our newsletter today\nAdvertisement\nThe story continues."
	got := c.CleanText(in)
	if strings.Contains(got, "newsletter") || strings.Contains(got, "Advertisement") {
		t.Fatalf("boilerplate survived: %q", got)
	}
	if !strings.Contains(got, "The story begins here.") || !strings.Contains(got, "The story continues.") {
		t.Fatalf("article text lost: %q", got)
	}
}

func TestCleanTextTruncatesAtSentenceBoundary(t *testing.T) {
	t.Parallel()

	c := NewCleaner(100, 0, 0)
	sentence := "Nine word sentences keep marching on and on here. "
	in := strings.Repeat(sentence, 10)
	got := c.CleanText(in)
	if len([]rune(got)) > 100 {
		t.Fatalf("CleanText kept %d runes, want <= 100", len([]rune(got)))
	}
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("CleanText did not end at a sentence: %q", got)
	}
}

func TestCleanTextKeepsHardCutWhenPeriodTooEarly(t *testing.T) {
	t.Parallel()

	c := NewCleaner(100, 0, 0)
	in := "Short. " + strings.Repeat("x", 300)
	got := c.CleanText(in)
	if len([]rune(got)) != 100 {
		t.Fatalf("CleanText kept %d runes, want the full 100", len([]rune(got)))
	}
}

func TestCleanTextShortInputUntouched(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 0, 0)
	if got := c.CleanText("Plain text stays put."); got != "Plain text stays put." {
		t.Fatalf("CleanText = %q", got)
	}
	if got := c.CleanText(""); got != "" {
		t.Fatalf("CleanText(empty) = %q", got)
	}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 0, 0)
	tests := []struct {
		in   string
		want string
	}{
		{"Breaking: Rates Held Steady - Example News", "Breaking: Rates Held Steady"},
		{"Markets Rally | The Daily Wire Report", "Markets Rally"},
		{"Fed &amp; Treasury Align", "Fed & Treasury Align"},
		{"  Spaced    Out  ", "Spaced Out"},
		{"", "Untitled"},
	}
	for _, tt := range tests {
		if got := c.CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 0, 0)
	longEnough := strings.Repeat("word ", 60)

	tests := []struct {
		name  string
		in    string
		valid bool
	}{
		{"empty", "", false},
		{"too few words", "just a handful of words here", false},
		{"enough", longEnough, true},
	}
	for _, tt := range tests {
		got := c.Validate(tt.in)
		if got.Valid != tt.valid {
			t.Errorf("%s: Validate(%q).Valid = %v, reason %q", tt.name, tt.in, got.Valid, got.Reason)
		}
		if !got.Valid && got.Reason == "" {
			t.Errorf("%s: invalid result carries no reason", tt.name)
		}
	}
}

func TestValidateCountsWords(t *testing.T) {
	t.Parallel()

	c := NewCleaner(0, 10, 10)
	got := c.Validate("one two three four five six seven eight nine ten eleven")
	if !got.Valid {
		t.Fatalf("Validate rejected: %s", got.Reason)
	}
	if got.WordCount != 11 {
		t.Fatalf("WordCount = %d, want 11", got.WordCount)
	}
}
