package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"claimgate/internal/model"
)

// LoadDraft reads a draft from disk. Markdown and plain text are used as-is;
// HTML exports are reduced to their visible text so the extractor sees the
// same lines a reviewer would.
func LoadDraft(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read draft: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractVisibleText(string(data))
	default:
		return string(data), nil
	}
}

// LoadChunks reads retrieved evidence chunks from a JSON file. The file is
// either a bare array or an object with a "chunks" field.
func LoadChunks(path string) ([]model.EvidenceChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}

	var chunks []model.EvidenceChunk
	if err := json.Unmarshal(data, &chunks); err == nil {
		return chunks, nil
	}

	var wrapped struct {
		Chunks []model.EvidenceChunk `json:"chunks"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse chunks: %w", err)
	}
	return wrapped.Chunks, nil
}

// RunSpec is a single entry in a batch manifest. Paths are relative to the
// manifest file.
type RunSpec struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Draft  string `yaml:"draft"`
	Chunks string `yaml:"chunks"`
}

// Manifest lists the runs to verify in a batch
type Manifest struct {
	Runs []RunSpec `yaml:"runs"`
}

// LoadManifest reads a batch manifest from a YAML file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for i, run := range manifest.Runs {
		if run.ID == "" {
			return nil, fmt.Errorf("manifest run %d: id is required", i+1)
		}
		if run.Draft == "" {
			return nil, fmt.Errorf("manifest run %q: draft path is required", run.ID)
		}
	}

	return &manifest, nil
}

// Load resolves a manifest entry into a verification input
func (s RunSpec) Load(baseDir string) (VerifyInput, error) {
	draft, err := LoadDraft(resolve(baseDir, s.Draft))
	if err != nil {
		return VerifyInput{}, fmt.Errorf("run %q: %w", s.ID, err)
	}

	var chunks []model.EvidenceChunk
	if s.Chunks != "" {
		chunks, err = LoadChunks(resolve(baseDir, s.Chunks))
		if err != nil {
			return VerifyInput{}, fmt.Errorf("run %q: %w", s.ID, err)
		}
	}

	return VerifyInput{
		RunID:          s.ID,
		RunDir:         baseDir,
		ProcedureTitle: s.Title,
		DraftText:      draft,
		Chunks:         chunks,
	}, nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// skipElements are HTML elements whose text is never visible
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
}

// blockElements force a line break around their content so headings and
// list items stay on their own lines after stripping.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "br": true, "ul": true, "ol": true, "table": true,
}

// extractVisibleText strips markup from an HTML draft, keeping the block
// structure as line breaks
func extractVisibleText(htmlText string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteString(" ")
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	// Collapse runs of blank lines
	lines := strings.Split(sb.String(), "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.Join(out, "\n"), nil
}
