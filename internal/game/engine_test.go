package game

import (
	"math/rand"
	"strings"
	"testing"
)

func statuses(s ...TileStatus) []TileStatus { return s }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		guess    string
		solution string
		want     []TileStatus
	}{
		{
			name:     "repeated letter in guess",
			guess:    "SABAR",
			solution: "BERAS",
			want:     statuses(StatusPresent, StatusAbsent, StatusPresent, StatusCorrect, StatusPresent),
		},
		{
			name:     "exact match",
			guess:    "BERAS",
			solution: "BERAS",
			want:     statuses(StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect),
		},
		{
			name:     "lower case input",
			guess:    "beras",
			solution: "BERAS",
			want:     statuses(StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect),
		},
		{
			name:     "nothing shared",
			guess:    "CIUMU",
			solution: "BERAS",
			want:     statuses(StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent),
		},
		{
			name:     "correct consumes before present",
			guess:    "AAAAS",
			solution: "BERAS",
			want:     statuses(StatusAbsent, StatusAbsent, StatusAbsent, StatusCorrect, StatusCorrect),
		},
		{
			name:     "two guessed, one in solution",
			guess:    "KAKAK",
			solution: "MAKAN",
			want:     statuses(StatusAbsent, StatusCorrect, StatusCorrect, StatusCorrect, StatusAbsent),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.guess, tc.solution)
			if len(got) != len(tc.want) {
				t.Fatalf("len %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("tile %d: got %q, want %q (full %v)", i, got[i], tc.want[i], got)
				}
			}
		})
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	if got := Evaluate("ABC", "BERAS"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestEvaluate_NeverOverReportsLetters(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const alphabet = "ABEKRS"
	word := func() string {
		var b strings.Builder
		for i := 0; i < 5; i++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		return b.String()
	}

	for iter := 0; iter < 5000; iter++ {
		guess, solution := word(), word()
		got := Evaluate(guess, solution)
		marked := map[byte]int{}
		for i, s := range got {
			if s != StatusAbsent {
				marked[guess[i]]++
			}
			if s == StatusCorrect && guess[i] != solution[i] {
				t.Fatalf("%s vs %s: tile %d marked correct", guess, solution, i)
			}
		}
		for letter, n := range marked {
			if have := strings.Count(solution, string(letter)); n > have {
				t.Fatalf("%s vs %s: letter %c marked %d times, solution has %d", guess, solution, letter, n, have)
			}
		}
	}
}

func TestScore(t *testing.T) {
	got := Score(statuses(StatusCorrect, StatusPresent, StatusAbsent, StatusCorrect, StatusPresent))
	if got != 6 {
		t.Errorf("got %d, want 6", got)
	}
	if Score(AllCorrect(5)) != 10 {
		t.Errorf("all correct should score 10")
	}
}

func TestSplitBest(t *testing.T) {
	alice := User{UniqueID: "a", Nickname: "Alice"}
	bob := User{UniqueID: "b", Nickname: "Bob"}
	history := []GuessRecord{
		{Guess: "SABAR", Author: alice, Statuses: statuses(StatusPresent, StatusAbsent, StatusPresent, StatusCorrect, StatusPresent)}, // 5
		{Guess: "CIUMU", Author: bob, Statuses: statuses(StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent)},       // 0
		{Guess: "BERAT", Author: bob, Statuses: statuses(StatusCorrect, StatusCorrect, StatusAbsent, StatusAbsent, StatusPresent)},    // 5
	}

	best, recent, ok := SplitBest(history)
	if !ok {
		t.Fatal("SplitBest returned ok=false")
	}
	if best.Guess != "BERAT" {
		t.Errorf("best %q, want BERAT (ties favor newer)", best.Guess)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) %d, want 2", len(recent))
	}
	if recent[0].Guess != "CIUMU" || recent[1].Guess != "SABAR" {
		t.Errorf("recent %q,%q, want CIUMU,SABAR", recent[0].Guess, recent[1].Guess)
	}
}

func TestSplitBest_DuplicateValuesExcludedByPosition(t *testing.T) {
	u := User{UniqueID: "a"}
	row := statuses(StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent, StatusPresent)
	history := []GuessRecord{
		{Guess: "KABAR", Author: u, Statuses: row},
		{Guess: "KABAR", Author: u, Statuses: row},
	}
	_, recent, _ := SplitBest(history)
	if len(recent) != 1 {
		t.Errorf("len(recent) %d, want 1", len(recent))
	}
}

func TestSplitBest_Empty(t *testing.T) {
	if _, _, ok := SplitBest(nil); ok {
		t.Error("empty history should report ok=false")
	}
}

func TestIsWordShape(t *testing.T) {
	cases := map[string]bool{
		"BERAS":  true,
		"BERA":   false,
		"BERAS1": false,
		"BER4S":  false,
		"beras":  false,
	}
	for in, want := range cases {
		if got := IsWordShape(in, 5); got != want {
			t.Errorf("IsWordShape(%q) = %v, want %v", in, got, want)
		}
	}
}
