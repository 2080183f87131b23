package site

import (
	"encoding/json"
	"os"
	"strings"
	"unicode/utf8"
)

const maxSearchContent = 2000

// SearchEntry is one searchable page in search-index.json.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Folder  string `json:"folder"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// newSearchEntry indexes a rendered page. The summary is the first line of
// prose after the headings; content is the markdown with heading markers and
// blank lines removed.
func newSearchEntry(htmlPath, title, subject, folder, markdown string) SearchEntry {
	entry := SearchEntry{Path: htmlPath, Title: title, Subject: subject, Folder: folder}

	var lines []string
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			trimmed = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		} else if entry.Summary == "" && !inFence {
			entry.Summary = trimmed
		}
		lines = append(lines, trimmed)
	}

	entry.Content = truncate(strings.Join(lines, " "), maxSearchContent)
	return entry
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
