package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"你好世界", 2, "你好"},
		{"", 5, ""},
	}
	for _, c := range cases {
		if got := TruncateRunes(c.in, c.max); got != c.want {
			t.Fatalf("TruncateRunes(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestNormalizeBody(t *testing.T) {
	if got := NormalizeBody("  hi there \n"); got != "hi there" {
		t.Fatalf("NormalizeBody = %q", got)
	}
	if got := NormalizeBody("a  b"); got != "a  b" {
		t.Fatal("inner whitespace must be preserved")
	}
}
