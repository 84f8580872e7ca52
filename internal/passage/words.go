package passage

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/verte-zerg/neontype/internal/model"
)

const (
	minSentenceWords = 6
	maxSentenceWords = 14
	commaPct         = 0.08
)

// Words builds passages offline from a word list. Topics are ignored.
type Words struct {
	words []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewWords returns a generator over words seeded with seed.
func NewWords(words []string, seed int64) (*Words, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return &Words{
		words: append([]string(nil), words...),
		rnd:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Generate implements Generator.
func (w *Words) Generate(ctx context.Context, _ model.Topic, length model.LengthClass) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	count := approxWords(length)
	out := make([]string, 0, count)
	sentenceLeft := 0
	for i := 0; i < count; i++ {
		word := w.words[w.rnd.Intn(len(w.words))]
		if sentenceLeft == 0 {
			word = capitalize(word)
			sentenceLeft = minSentenceWords + w.rnd.Intn(maxSentenceWords-minSentenceWords+1)
		}
		sentenceLeft--
		switch {
		case sentenceLeft == 0 || i == count-1:
			word += "."
			sentenceLeft = 0
		case w.rnd.Float64() < commaPct:
			word += ","
		}
		out = append(out, word)
	}
	return strings.Join(out, " "), nil
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
