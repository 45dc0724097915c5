package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedPair is returned for a list line that does not hold exactly
// two URLs.
var ErrMalformedPair = errors.New("malformed pair: expected two whitespace-separated URLs")

// Pair is one comparison request from a list file.
type Pair struct {
	// Line is the 1-based line number in the list file, 0 when not from a file.
	Line int
	URL1 string
	URL2 string
}

// ParsePairs reads one pair per line. Blank lines and lines starting with
// '#' are skipped. Lines are not validated as URLs: a data: URI or a bare
// host is as valid an input to the comparator as an http URL.
func ParsePairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	sc := bufio.NewScanner(r)
	// data: URIs can make a single line very long.
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: %w", line, ErrMalformedPair)
		}
		pairs = append(pairs, Pair{Line: line, URL1: fields[0], URL2: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading pairs: %w", err)
	}
	return pairs, nil
}

// LoadPairs parses the list file at path.
func LoadPairs(path string) ([]Pair, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided list file is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	pairs, err := ParsePairs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}
