package qa

import (
	"testing"

	"github.com/saideep872/aurora-qa/core"
)

func corpusOf(persons ...string) []*core.Message {
	corpus := make([]*core.Message, len(persons))
	for i, p := range persons {
		corpus[i] = &core.Message{Id: core.ID(i + 1), Person: p, Text: "hello"}
	}
	return corpus
}

func TestByPersonExactName(t *testing.T) {
	corpus := corpusOf("Sophia Al-Farsi", "Marcus Chen", "Sophia Al-Farsi")

	got := ByPerson(corpus, "Sophia Al-Farsi")
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	for _, msg := range got {
		if msg.Person != "Sophia Al-Farsi" {
			t.Errorf("unexpected person %q", msg.Person)
		}
	}
}

func TestByPersonCaseAndDiacritics(t *testing.T) {
	corpus := corpusOf("Sophía Al-Farsi", "Marcus Chen")

	got := ByPerson(corpus, "sophia al-farsi")
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
}

func TestByPersonPartialName(t *testing.T) {
	corpus := corpusOf("Sophia Al-Farsi", "Marcus Chen")

	for _, target := range []string{"Sophia", "Farsi", "al-farsi"} {
		got := ByPerson(corpus, target)
		if len(got) != 1 || got[0].Person != "Sophia Al-Farsi" {
			t.Errorf("target %q: expected Sophia's message, got %d results", target, len(got))
		}
	}
}

func TestByPersonNoMatchReturnsCorpus(t *testing.T) {
	corpus := corpusOf("Sophia Al-Farsi", "Marcus Chen")

	got := ByPerson(corpus, "Priya Nair")
	if len(got) != len(corpus) {
		t.Fatalf("expected unchanged corpus, got %d of %d", len(got), len(corpus))
	}
}

func TestByPersonEmptyTarget(t *testing.T) {
	corpus := corpusOf("Sophia Al-Farsi", "Marcus Chen")

	if got := ByPerson(corpus, ""); len(got) != len(corpus) {
		t.Fatalf("expected unchanged corpus, got %d", len(got))
	}
	if got := ByPerson(corpus, "   "); len(got) != len(corpus) {
		t.Fatalf("expected unchanged corpus for blank target, got %d", len(got))
	}
}

func TestExtractTargetFullName(t *testing.T) {
	persons := []string{"Sophia Al-Farsi", "Marcus Chen"}

	got := ExtractTarget("When did Sophia Al-Farsi visit Rome?", persons)
	if got != "Sophia Al-Farsi" {
		t.Fatalf("expected Sophia Al-Farsi, got %q", got)
	}
}

func TestExtractTargetFirstNameAndPossessive(t *testing.T) {
	persons := []string{"Sophia Al-Farsi", "Marcus Chen"}

	got := ExtractTarget("What are Sophia's favorite restaurants?", persons)
	if got != "Sophia Al-Farsi" {
		t.Fatalf("expected Sophia Al-Farsi, got %q", got)
	}
}

func TestExtractTargetAmbiguous(t *testing.T) {
	persons := []string{"Sophia Al-Farsi", "Sophia Chen"}

	if got := ExtractTarget("What does Sophia like?", persons); got != "" {
		t.Fatalf("ambiguous first name should extract nothing, got %q", got)
	}
}

func TestExtractTargetAbsent(t *testing.T) {
	persons := []string{"Sophia Al-Farsi", "Marcus Chen"}

	if got := ExtractTarget("How many cars are mentioned?", persons); got != "" {
		t.Fatalf("expected no target, got %q", got)
	}
}
