package domain

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Is the sky blue?", "is-the-sky-blue"},
		{"Prüfung für Jäger", "prufung-fur-jager"},
		{"  multiple   spaces  ", "multiple-spaces"},
		{"Already-slugged-id", "already-slugged-id"},
		{"???", ""},
		{"", ""},
		{"100% Correct!", "100-correct"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Is the sky blue?", "Ärger & Freude", "a--b"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Fatalf("Slugify not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestIDForQuestion(t *testing.T) {
	id, err := IDForQuestion(Question{Text: "Is the sky blue?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "is-the-sky-blue" {
		t.Fatalf("got %q", id)
	}

	if _, err := IDForQuestion(Question{}); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestIDForAnswer(t *testing.T) {
	id, err := IDForAnswer(Answer{InternalID: "yes", Text: "Yes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "yes" {
		t.Fatalf("got %q", id)
	}

	if _, err := IDForAnswer(Answer{Text: "orphan"}); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
}
