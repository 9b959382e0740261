// internal/words/words.go
//
// Dictionary service for the round engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from environment-provided files or
//     fall back to the embedded lists in package assets.
//   - Keep answers grouped by length for RandomWord and a set of every
//     accepted guess (answers ∪ allowed) for IsValidWord.
//   - Serve word definitions from the embedded table, optionally topped up
//     by a remote lookup that is warmed in the background (Prefetch).
//
// Initialization behavior (Initialize):
//   1. If AnswersFile and AllowedFile are both set,
//      load answers from the first and allowed guesses from the second.
//   2. If only AllowedFile is set,
//      load that file and use it for both answers and allowed guesses.
//   3. If neither is set,
//      use the embedded assets.
//
// Unlike a sync.Once, a failed Initialize leaves the dictionary unloaded so
// the caller can retry.

package words

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/assets"
	"github.com/robalobadob/wordle-live/internal/game"
)

var (
	ErrNotInitialized = errors.New("words: dictionary not initialized")
	ErrEmptyAnswers   = errors.New("words: answers list is empty")
	ErrNoWordOfLength = errors.New("words: no answer of requested length")
)

// Config selects word list sources.
type Config struct {
	AnswersFile string // WORDS_ANSWERS_FILE
	AllowedFile string // WORDS_ALLOWED_FILE
	// LookupTimeout bounds one remote definition request.
	LookupTimeout time.Duration
}

// DefinitionSource looks a word up somewhere other than the embedded table.
type DefinitionSource interface {
	Lookup(ctx context.Context, word string) (game.Definition, bool, error)
}

// Dictionary is safe for concurrent use.
type Dictionary struct {
	cfg    Config
	remote DefinitionSource
	logger zerolog.Logger

	mu          sync.RWMutex
	loaded      bool
	answers     map[int][]string    // by word length
	allowedSet  map[string]struct{} // answers ∪ guesses
	definitions map[string]game.Definition
	fetched     map[string]game.Definition // remote results
	inflight    map[string]struct{}
}

// New builds an unloaded dictionary. remote may be nil.
func New(cfg Config, remote DefinitionSource, logger zerolog.Logger) *Dictionary {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	return &Dictionary{
		cfg:      cfg,
		remote:   remote,
		logger:   logger.With().Str("component", "words").Logger(),
		fetched:  make(map[string]game.Definition),
		inflight: make(map[string]struct{}),
	}
}

// Initialize loads word lists once. Returns an error if the answers list ends up empty.
func (d *Dictionary) Initialize(ctx context.Context) error {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var ansList, allowList []string
	var err error
	switch {
	// Case 1: both lists provided
	case d.cfg.AnswersFile != "" && d.cfg.AllowedFile != "":
		if ansList, err = readWordFile(d.cfg.AnswersFile); err != nil {
			return err
		}
		if allowList, err = readWordFile(d.cfg.AllowedFile); err != nil {
			return err
		}

	// Case 2: only allowed file provided → use for both
	case d.cfg.AnswersFile == "" && d.cfg.AllowedFile != "":
		if allowList, err = readWordFile(d.cfg.AllowedFile); err != nil {
			return err
		}
		ansList = allowList

	// Case 3: embedded defaults
	default:
		if ansList, err = assets.AnswersList(); err != nil {
			return fmt.Errorf("words: embedded answers: %w", err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return fmt.Errorf("words: embedded allowed: %w", err)
		}
		ansList, allowList = onlyWords(ansList), onlyWords(allowList)
	}
	if len(ansList) == 0 {
		return ErrEmptyAnswers
	}

	defs, err := assets.Definitions()
	if err != nil {
		return fmt.Errorf("words: embedded definitions: %w", err)
	}

	byLen := make(map[int][]string)
	for _, w := range ansList {
		byLen[len(w)] = append(byLen[len(w)], w)
	}
	// Ensure all answers are also accepted as guesses
	allowed := toSet(ansList)
	for _, w := range allowList {
		allowed[w] = struct{}{}
	}
	table := make(map[string]game.Definition, len(defs))
	for w, def := range defs {
		table[w] = game.Definition{Meanings: def.Meanings, Examples: def.Examples}
	}

	d.mu.Lock()
	d.answers, d.allowedSet, d.definitions, d.loaded = byLen, allowed, table, true
	d.mu.Unlock()

	d.logger.Info().Int("answers", len(ansList)).Int("allowed", len(allowed)).Msg("word lists loaded")
	return nil
}

// readWordFile loads one word per line from a file,
// upper-cases, trims, and keeps only alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	list, err := assets.ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return onlyWords(list), nil
}

// onlyWords keeps entries made solely of A–Z.
func onlyWords(list []string) []string {
	out := list[:0]
	for _, w := range list {
		if w != "" && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all upper-case ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// RandomWord returns a cryptographically random answer of the given length.
func (d *Dictionary) RandomWord(length int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.loaded {
		return "", ErrNotInitialized
	}
	pool := d.answers[length]
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: %d", ErrNoWordOfLength, length)
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return "", fmt.Errorf("words: random index: %w", err)
	}
	return pool[nBig.Int64()], nil
}

// IsValidWord reports whether w is an accepted guess (answers ∪ guesses).
func (d *Dictionary) IsValidWord(w string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.allowedSet[strings.ToUpper(w)]
	return ok
}

// Definition returns what is known about word without blocking on the network.
// Remote results appear here once a Prefetch for the word has completed.
func (d *Dictionary) Definition(word string) (game.Definition, bool) {
	word = strings.ToUpper(word)
	d.mu.RLock()
	defer d.mu.RUnlock()
	if def, ok := d.definitions[word]; ok {
		return def, true
	}
	def, ok := d.fetched[word]
	return def, ok
}

// Prefetch warms the remote definition for word in the background.
// It is a no-op without a remote source or when the word is already known.
func (d *Dictionary) Prefetch(word string) {
	if d.remote == nil {
		return
	}
	word = strings.ToUpper(word)
	d.mu.Lock()
	_, known := d.definitions[word]
	_, cached := d.fetched[word]
	_, busy := d.inflight[word]
	if known || cached || busy {
		d.mu.Unlock()
		return
	}
	d.inflight[word] = struct{}{}
	d.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.LookupTimeout)
		defer cancel()
		def, ok, err := d.remote.Lookup(ctx, word)

		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.inflight, word)
		if err != nil {
			d.logger.Warn().Err(err).Str("word", word).Msg("definition lookup failed")
			return
		}
		if ok {
			d.fetched[word] = def
		}
	}()
}

// Stats returns counts of loaded words: (answers, allowed).
func (d *Dictionary) Stats() (answersCount int, allowedCount int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, pool := range d.answers {
		answersCount += len(pool)
	}
	return answersCount, len(d.allowedSet)
}
