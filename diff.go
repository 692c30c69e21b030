package sidle

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares the decrypted contents of two stores and returns a
// line-oriented diff of their key=value renderings: unchanged lines
// prefixed with a space, lines only in s with "-", lines only in other
// with "+". Returns the empty string when the stores are identical.
//
// Both stores are read with their own passwords, so two files encrypted
// under different passwords can still be compared.
func (s *Store) Diff(other *Store) (string, error) {
	a, err := s.render()
	if err != nil {
		return "", err
	}
	b, err := other.render()
	if err != nil {
		return "", err
	}
	if a == b {
		return "", nil
	}
	return lineDiff(a, b), nil
}

// render flattens the store into one key=value line per entry.
func (s *Store) render() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load()
	if err != nil {
		return "", err
	}
	pairs, err := rs.Pairs()
	if err != nil {
		return "", translateErr(err)
	}

	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// lineDiff produces a line-level diff. Line mode keeps the output readable
// for record data instead of character-level noise.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()

	ca, cb, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var buf strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
