package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDomains_NumberedListDedupTruncate(t *testing.T) {
	raw := "1. getshop.com\n2. getshop.com\n3. mytech.io\nSome notes here."
	got := Domains(raw, 2)
	want := []string{"getshop.com", "mytech.io"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestDomains_ProseLineWithTrailingDotIsACandidate(t *testing.T) {
	// "here." survives the heuristic; only truncation keeps it out above.
	raw := "1. getshop.com\n2. getshop.com\n3. mytech.io\nSome notes here."
	got := Domains(raw, 10)
	want := []string{"getshop.com", "mytech.io", "here"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestCandidate_Lines(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Here are some ideas:", "", false},
		{"1. getshop.com", "getshop.com", true},
		{"2) mytech.io", "mytech.io", true},
		{"- bestweb.app", "bestweb.app", true},
		{"   12.  SmartHub.AI  ", "smarthub.ai", true},
		{"(mytech.io)", "mytech.io", true},
		{`"getshop.com",`, "getshop.com", true},
		{"[brand.tech];", "brand.tech", true},
		{"http://bestweb.app", "", false},
		{"https://bestweb.app", "", false},
		{"visit http://bestweb.app today", "", false},
		{"Try getshop.com - it is short", "getshop.com", true},
		{"...", "", false},
		{"", "", false},
		{"1.5 million", "", false},
		{"This line is a long explanation that mentions example.com somewhere", "", false},
	}
	for _, c := range cases {
		got, ok := candidate(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("candidate(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCandidate_OnlyFirstDottedTokenConsidered(t *testing.T) {
	// the first dotted token is a URL and is rejected; the second is never looked at
	if got, ok := candidate("http://x.io or mytech.io"); ok {
		t.Fatalf("expected no candidate, got %q", got)
	}
	// a dotted token that trims to empty also ends the line
	if got, ok := candidate("word ... getshop.com"); ok {
		t.Fatalf("expected no candidate, got %q", got)
	}
}

func TestCandidate_LengthBoundaryCountsRunes(t *testing.T) {
	// 49 runes passes, 50 does not
	ok49 := strings.Repeat("a", 45) + ".com"
	if _, ok := candidate(ok49); !ok {
		t.Fatalf("expected 49-rune line to pass")
	}
	bad50 := strings.Repeat("a", 46) + ".com"
	if _, ok := candidate(bad50); ok {
		t.Fatalf("expected 50-rune line to be rejected")
	}
	// multi-byte runes count once each
	wide := strings.Repeat("é", 40) + ".com"
	if _, ok := candidate(wide); !ok {
		t.Fatalf("expected 44-rune line with multi-byte runes to pass")
	}
}

func TestDomains_CaseInsensitiveDedup(t *testing.T) {
	got := Domains("GetShop.com\ngetshop.COM\ngetshop.com", 5)
	if diff := cmp.Diff([]string{"getshop.com"}, got); diff != "" {
		t.Fatalf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestDomains_FirstSeenOrder(t *testing.T) {
	raw := "b.io\na.io\nb.io\nc.io\na.io"
	got := Domains(raw, 10)
	if diff := cmp.Diff([]string{"b.io", "a.io", "c.io"}, got); diff != "" {
		t.Fatalf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestDomains_ZeroAndNegativeCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		got := Domains("getshop.com\nmytech.io", n)
		if got == nil || len(got) != 0 {
			t.Fatalf("count=%d: expected empty non-nil slice, got %#v", n, got)
		}
	}
}

func TestDomains_ShortResponseIsNotAnError(t *testing.T) {
	got := Domains("Sure! Here you go:\n\ngetshop.com\n", 20)
	if diff := cmp.Diff([]string{"getshop.com"}, got); diff != "" {
		t.Fatalf("Domains mismatch (-want +got):\n%s", diff)
	}
	if got := Domains("", 20); len(got) != 0 {
		t.Fatalf("expected empty result for empty completion, got %v", got)
	}
}

func TestDomains_CRLFAndIndentation(t *testing.T) {
	got := Domains("  1. getshop.com\r\n\t2. mytech.io\r\n", 5)
	if diff := cmp.Diff([]string{"getshop.com", "mytech.io"}, got); diff != "" {
		t.Fatalf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestDomains_Idempotent(t *testing.T) {
	raw := "1. getshop.com\n2. (mytech.io)\nhttp://bestweb.app\nsmarthub.ai"
	a := Domains(raw, 3)
	b := Domains(raw, 3)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("non-deterministic result (-first +second):\n%s", diff)
	}
}

func TestDomains_Properties(t *testing.T) {
	raws := []string{
		"1. getshop.com\n2. GETSHOP.com\n3. mytech.io\n4. bestweb.app\n5. smarthub.ai",
		"noise\n- a.io\n- b.io\n- a.io\n- (c.io)\nhttp://d.io\n- e.io",
		"",
	}
	for _, raw := range raws {
		for count := 0; count <= 6; count++ {
			got := Domains(raw, count)
			if len(got) > count {
				t.Fatalf("len %d > count %d for %q", len(got), count, raw)
			}
			seen := map[string]bool{}
			for _, d := range got {
				k := strings.ToLower(d)
				if seen[k] {
					t.Fatalf("duplicate %q in %v", d, got)
				}
				seen[k] = true
			}
			// order matches first appearance among candidates
			cands := Candidates(raw)
			pos := -1
			for _, d := range got {
				idx := indexOf(cands, d)
				if idx <= pos {
					t.Fatalf("order violated for %q in %v", d, got)
				}
				pos = idx
			}
		}
	}
}

func TestCandidates_KeepsDuplicates(t *testing.T) {
	got := Candidates("a.io\na.io\nplain\nb.io")
	if diff := cmp.Diff([]string{"a.io", "a.io", "b.io"}, got); diff != "" {
		t.Fatalf("Candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestYield(t *testing.T) {
	if y := Yield(5, 20); y != 0.25 {
		t.Fatalf("yield=%v", y)
	}
	if y := Yield(3, 0); y != 0 {
		t.Fatalf("yield with zero request=%v", y)
	}
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
