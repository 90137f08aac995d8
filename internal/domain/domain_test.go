package domain

import (
	"errors"
	"testing"
)

func TestAnswerSetMatchesNormalized(t *testing.T) {
	set := NewAnswerSet("  Rolls Royce ", "rolls royce", "RR")
	if len(set) != 2 {
		t.Fatalf("expected duplicates collapsed, got %v", set)
	}
	if !set.Matches("ROLLS ROYCE") {
		t.Fatalf("expected case-insensitive match")
	}
	if !set.Matches("\trr\n") {
		t.Fatalf("expected whitespace-insensitive match")
	}
	if set.Matches("Bentley") {
		t.Fatalf("unexpected match")
	}

	raw := AnswerSet{"Ferrari"}
	if !raw.Matches("ferrari") {
		t.Fatalf("expected stored answers to be normalized at comparison time")
	}
}

func TestParseAnswerSetFormats(t *testing.T) {
	cases := []struct {
		stored string
		want   []string
	}{
		{`["Porsche","porsche "]`, []string{"porsche"}},
		{`{'Rolls Royce'}`, []string{"rolls royce"}},
		{`{'Ferrari', "Scuderia"}`, []string{"ferrari", "scuderia"}},
		{`{'It\'s a Mini'}`, []string{"it's a mini"}},
		{`set()`, nil},
		{`  ["Lamborghini"]  `, []string{"lamborghini"}},
	}
	for _, tc := range cases {
		stored, want := tc.stored, tc.want
		got, err := ParseAnswerSet(stored)
		if err != nil {
			t.Fatalf("parse %q: %v", stored, err)
		}
		if len(got) != len(want) {
			t.Fatalf("parse %q: expected %v, got %v", stored, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("parse %q: expected %v, got %v", stored, want, got)
			}
		}
	}
}

func TestParseAnswerSetRejectsCode(t *testing.T) {
	for _, stored := range []string{`__import__('os')`, `{'a', b}`, `{'open`, `Porsche`} {
		if _, err := ParseAnswerSet(stored); err == nil {
			t.Fatalf("expected error for %q", stored)
		}
	}
}

func TestAnswerSetEncodeRoundTrip(t *testing.T) {
	encoded, err := NewAnswerSet("Audi", "VW").Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != `["audi","vw"]` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	empty, _ := AnswerSet(nil).Encode()
	if empty != `[]` {
		t.Fatalf("expected empty array, got %s", empty)
	}
}

func TestNormalizePlayerName(t *testing.T) {
	name, err := NormalizePlayerName("  Ana Lee 7 ")
	if err != nil || name != "Ana Lee 7" {
		t.Fatalf("expected trimmed name, got %q err=%v", name, err)
	}
	for _, bad := range []string{"", "   ", "robert'); drop", "abcdefghijklmnopqrstu"} {
		if _, err := NormalizePlayerName(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected invalid argument for %q, got %v", bad, err)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := ValidateLimit(-3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := ValidateLimit(1); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestOrdinalAndDisplayName(t *testing.T) {
	want := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 21: "21st", 102: "102nd", 113: "113th"}
	for rank, s := range want {
		if got := Ordinal(rank); got != s {
			t.Fatalf("ordinal %d: expected %s, got %s", rank, s, got)
		}
	}
	if got := DisplayName("Short"); got != "Short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := DisplayName("A very long player name"); got != "A very long playe..." {
		t.Fatalf("unexpected %q", got)
	}
}

func TestGameOverMessage(t *testing.T) {
	if got := GameOverMessage("Ana", 5); got != "Congratulations Ana!" {
		t.Fatalf("unexpected %q", got)
	}
	if got := GameOverMessage("Ana", 0); got != "Keep practicing Ana! Better luck next time!" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestQuestionValidate(t *testing.T) {
	ok := Question{Prompt: "Prancing horse?", Clue: "Ferrari.jpg", Answers: NewAnswerSet("Ferrari")}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	bad := ok
	bad.Answers = nil
	if err := bad.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
