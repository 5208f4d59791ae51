package tagger

import (
	"bufio"
	"io"
)

// ReadVocabulary reads one tag name per line. Line order is significant, so
// blank lines inside the list are kept; only the trailing newline is dropped.
func ReadVocabulary(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var tags []string
	for sc.Scan() {
		tags = append(tags, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
