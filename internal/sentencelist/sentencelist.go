// Package sentencelist reads and writes sentence files for import and export.
package sentencelist

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a sentence file encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the JSON/YAML shape of an exported pool.
type document struct {
	Sentences []string `json:"sentences" yaml:"sentences"`
}

// ParseFormat validates a format name. An empty name maps to text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", name)
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Load reads sentences from path, inferring the format from its extension.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only sentence file.
			_ = cerr
		}
	}()
	return Read(file, FormatForPath(path))
}

// Read decodes sentences in the given format and drops entries that are not
// practicable.
func Read(r io.Reader, format Format) ([]string, error) {
	var raw []string
	switch format {
	case FormatJSON:
		var doc document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
		raw = doc.Sentences
	case FormatYAML:
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
		raw = doc.Sentences
	default:
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	sentences := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if !Practicable(line) {
			continue
		}
		sentences = append(sentences, line)
	}
	return sentences, nil
}

// Write encodes sentences in the given format.
func Write(w io.Writer, sentences []string, format Format) error {
	if sentences == nil {
		sentences = []string{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(document{Sentences: sentences})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Sentences: sentences}); err != nil {
			return err
		}
		return enc.Close()
	default:
		bw := bufio.NewWriter(w)
		for _, s := range sentences {
			if _, err := fmt.Fprintln(bw, s); err != nil {
				return err
			}
		}
		return bw.Flush()
	}
}
