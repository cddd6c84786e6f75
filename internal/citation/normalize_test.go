package citation

import "testing"

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	n := normalize("alpha   beta\n\t gamma")
	if n.text != "alpha beta gamma" {
		t.Errorf("expected %q, got %q", "alpha beta gamma", n.text)
	}
}

func TestNormalize_TrimsEdges(t *testing.T) {
	n := normalize("  padded value  ")
	if n.text != "padded value" {
		t.Errorf("expected %q, got %q", "padded value", n.text)
	}
}

func TestNormalize_FoldsTypography(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"it’s “quoted” here", `it's "quoted" here`},
		{"an em—dash and en–dash", "an em-dash and en-dash"},
		{"wait…", "wait..."},
	}
	for _, tt := range tests {
		if got := normalize(tt.in).text; got != tt.want {
			t.Errorf("normalize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNormalize_DropsSpacingAroundPipes(t *testing.T) {
	n := normalize("| Item | Cost |")
	if n.text != "|Item|Cost|" {
		t.Errorf("expected %q, got %q", "|Item|Cost|", n.text)
	}

	// Newlines between pipe rows collapse away entirely.
	n = normalize("| a |\n| b |")
	if n.text != "|a||b|" {
		t.Errorf("expected %q, got %q", "|a||b|", n.text)
	}
}

func TestNormalize_SourceRangeRoundTrip(t *testing.T) {
	src := "The  “license”   fee"
	n := normalize(src)
	if n.text != `The "license" fee` {
		t.Fatalf("unexpected normalized text: %q", n.text)
	}

	// Map the normalized span of `"license"` back to the source.
	start := 4
	end := start + len(`"license"`)
	s, e := n.sourceRange(start, end)
	if src[s:e] != "“license”" {
		t.Errorf("expected source slice %q, got %q", "“license”", src[s:e])
	}
}

func TestNormalize_EmptyAndWhitespaceOnly(t *testing.T) {
	if n := normalize(""); n.text != "" {
		t.Errorf("expected empty result, got %q", n.text)
	}
	if n := normalize("   \n\t "); n.text != "" {
		t.Errorf("expected empty result for whitespace, got %q", n.text)
	}
}

func TestSourceRange_Bounds(t *testing.T) {
	n := normalize("abc")
	if s, e := n.sourceRange(0, 3); s != 0 || e != 3 {
		t.Errorf("expected (0,3), got (%d,%d)", s, e)
	}
	if s, e := n.sourceRange(2, 2); s != 0 || e != 0 {
		t.Errorf("expected zero range for empty span, got (%d,%d)", s, e)
	}
	if s, e := n.sourceRange(-5, 99); s != 0 || e != 3 {
		t.Errorf("expected clamped (0,3), got (%d,%d)", s, e)
	}
}
