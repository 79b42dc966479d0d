package phonemes

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads one phoneme per line from the provided file path.
// Blank lines and lines starting with '#' are skipped.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only phoneme list.
			_ = cerr
		}
	}()

	var list []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if symbol := Normalize(line); symbol != "" {
			list = append(list, symbol)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("phoneme list is empty")
	}
	return list, nil
}

// Normalize trims whitespace and surrounding IPA slashes or brackets.
func Normalize(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	symbol = strings.TrimPrefix(symbol, "/")
	symbol = strings.TrimSuffix(symbol, "/")
	symbol = strings.TrimPrefix(symbol, "[")
	symbol = strings.TrimSuffix(symbol, "]")
	return strings.TrimSpace(symbol)
}

// NormalizeAll normalizes every symbol and drops empty entries.
func NormalizeAll(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// File reads the phoneme list from a file on every lookup.
type File struct {
	Path string
}

// Phonemes implements Source.
func (f File) Phonemes(_ context.Context, _ string) ([]string, error) {
	if f.Path == "" {
		return nil, ErrNotFound
	}
	list, err := LoadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load phoneme file %s: %w", f.Path, err)
	}
	return list, nil
}
