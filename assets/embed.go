package assets

import (
	"bufio"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

//go:embed allowed.txt answers.txt definitions.json
var FS embed.FS

// Definition mirrors one entry of definitions.json.
type Definition struct {
	Meanings []string `json:"meanings"`
	Examples []string `json:"examples"`
}

// ReadWords parses one word per line, skipping blanks and # comments.
// Words are upper-cased; filtering by shape is left to the caller.
func ReadWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWords(f)
}

func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}

// Definitions returns the embedded definitions keyed by upper-case word.
func Definitions() (map[string]Definition, error) {
	b, err := FS.ReadFile("definitions.json")
	if err != nil {
		return nil, err
	}
	raw := map[string]Definition{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse definitions.json: %w", err)
	}
	out := make(map[string]Definition, len(raw))
	for w, d := range raw {
		out[strings.ToUpper(w)] = d
	}
	return out, nil
}
