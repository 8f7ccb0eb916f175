package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/soaringjerry/fairway/internal/services"
)

func allFives(t *testing.T) []byte {
	t.Helper()
	raw := map[string]int{}
	for _, q := range services.QuestionBank() {
		raw[strconv.Itoa(q.ID)] = 5
	}
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestScoreCommandFromStdin(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(bytes.NewReader(allFives(t)))
	root.SetArgs([]string{"score"})
	if err := root.Execute(); err != nil {
		t.Fatalf("score: %v", err)
	}
	var got services.Outcome
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if got.Type != "ESTJ" {
		t.Fatalf("type = %s, want ESTJ", got.Type)
	}
}

func TestScoreCommandRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	if err := os.WriteFile(path, []byte(`{"1":5,"2":4}`), 0o600); err != nil {
		t.Fatal(err)
	}
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"score", "--file", path})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for incomplete answers")
	}
}

func TestReadAnswersRejectsNonNumericKeys(t *testing.T) {
	if _, err := readAnswers(strings.NewReader(`{"q1":3}`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestCardCommandWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "card.png")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"card", "--type", "entj", "--lang", "en", "--out", out, "--font-dir", ""})
	if err := root.Execute(); err != nil {
		t.Fatalf("card: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
}

func TestCardCommandRequiresType(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"card"})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error without --type")
	}
}
