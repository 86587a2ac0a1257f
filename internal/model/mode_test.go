package model

import "testing"

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeRomantic, true},
		{"romantic", ModeRomantic, true},
		{"platonic", ModePlatonic, true},
		{"Romantic", "", false},
		{"friends", "", false},
	}
	for _, c := range cases {
		got, ok := ParseMode(c.in)
		if ok != c.ok {
			t.Fatalf("ParseMode(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("ParseMode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestModeTablesDisjoint(t *testing.T) {
	seen := map[string]Mode{}
	for _, mode := range Modes {
		tb := mode.Tables()
		for _, name := range []string{tb.Likes, tb.Passes, tb.Matches, tb.Chats, tb.Messages} {
			if name == "" {
				t.Fatalf("mode %q resolves to an empty table name", mode)
			}
			if other, dup := seen[name]; dup {
				t.Fatalf("table %q shared between modes %q and %q", name, other, mode)
			}
			seen[name] = mode
		}
	}
}

func TestSharedTablesIsRomanticPartition(t *testing.T) {
	if SharedTables() != ModeRomantic.Tables() {
		t.Fatal("shared partition must be the romantic tables")
	}
}
