package jira

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadIssueKeys reads issue keys from a text file, one per line.
// Blank lines and lines starting with # are skipped.
func LoadIssueKeys(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open issue file: %w", err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key := strings.TrimSpace(scanner.Text())
		if key == "" || strings.HasPrefix(key, "#") {
			continue
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read issue file: %w", err)
	}
	return keys, nil
}
