package command

import (
	"errors"
	"testing"
)

func TestAppendLine(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"insert", Insert("AbC", 42), "+ AbC 42\n"},
		{"insert max value", Insert("k", 18446744073709551615), "+ k 18446744073709551615\n"},
		{"insert empty key", Insert("", 0), "+  0\n"},
		{"delete", Delete("xyz"), "- xyz\n"},
		{"delete empty key", Delete(""), "- \n"},
		{"lookup has no newline", Lookup("Zz"), "Zz"},
		{"empty lookup writes nothing", Lookup(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(AppendLine(nil, tt.cmd)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConsecutiveLookupsRunTogether(t *testing.T) {
	buf := AppendLine(nil, Lookup("Zz"))
	buf = AppendLine(buf, Lookup("Qq"))
	if string(buf) != "ZzQq" {
		t.Errorf("expected ZzQq, got %q", buf)
	}
}

func TestValidKey(t *testing.T) {
	for _, key := range []string{"", "a", "Z", Alphabet} {
		if !ValidKey(key) {
			t.Errorf("expected %q to be valid", key)
		}
	}
	for _, key := range []string{" ", "a b", "a+", "-", "k1", "é"} {
		if ValidKey(key) {
			t.Errorf("expected %q to be invalid", key)
		}
	}
	if len(Alphabet) != 52 {
		t.Errorf("expected 52 letters, got %d", len(Alphabet))
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"lines": FormatLines, "": FormatLines, "RESP": FormatRESP} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; expected %v", name, got, err, want)
		}
	}
	if _, err := ParseFormat("json"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindInsert.String() != "insert" || KindDelete.String() != "delete" || KindLookup.String() != "lookup" {
		t.Errorf("unexpected kind names")
	}
	if Kind(7).String() != "Kind(7)" {
		t.Errorf("unexpected name for unknown kind: %s", Kind(7))
	}
}
