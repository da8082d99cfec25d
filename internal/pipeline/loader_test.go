package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDraftMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "draft.md", "# Dosering\nAmoxicillin 50 mg/kg/d\n")

	draft, err := LoadDraft(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(draft, "Amoxicillin 50 mg/kg/d") {
		t.Errorf("unexpected draft: %q", draft)
	}
}

func TestLoadDraftHTMLStripsMarkup(t *testing.T) {
	dir := t.TempDir()
	html := `<html><head><title>x</title><style>p{color:red}</style></head>
<body><h1>Dosering</h1><p>Amoxicillin <b>50 mg/kg/d</b> fordelt på 3 doser</p>
<script>alert(1)</script></body></html>`
	path := writeFile(t, dir, "draft.html", html)

	draft, err := LoadDraft(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !strings.Contains(draft, "Dosering") {
		t.Error("heading text lost")
	}
	if !strings.Contains(draft, "Amoxicillin 50 mg/kg/d fordelt på 3 doser") {
		t.Errorf("inline markup should not split the sentence: %q", draft)
	}
	if strings.Contains(draft, "alert") || strings.Contains(draft, "color:red") {
		t.Errorf("script/style content leaked: %q", draft)
	}

	// Heading and paragraph must stay on separate lines
	lines := strings.Split(draft, "\n")
	if len(lines) < 2 {
		t.Errorf("block structure lost: %q", draft)
	}
}

func TestLoadDraftMissingFile(t *testing.T) {
	if _, err := LoadDraft(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadChunksArray(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chunks.json",
		`[{"id":"c1","source_id":"DSI2023","text":"amoxicillin 50 mg/kg/d","metadata":{"source_year":2023}}]`)

	chunks, err := LoadChunks(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chunks) != 1 || chunks[0].SourceID != "DSI2023" || chunks[0].Metadata.SourceYear != 2023 {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}

func TestLoadChunksWrappedObject(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chunks.json", `{"chunks":[{"id":"c1","source_id":"S1","text":"t"}]}`)

	chunks, err := LoadChunks(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "c1" {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "draft.md", "# Dosering\nAmoxicillin 50 mg/kg/d [DSI2023]\n")
	writeFile(t, dir, "chunks.json", `[{"id":"c1","source_id":"DSI2023","text":"amoxicillin"}]`)
	path := writeFile(t, dir, "manifest.yaml", `runs:
  - id: run-1
    title: Pneumoni hos børn
    draft: draft.md
    chunks: chunks.json
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(manifest.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(manifest.Runs))
	}

	input, err := manifest.Runs[0].Load(dir)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if input.RunID != "run-1" || input.ProcedureTitle != "Pneumoni hos børn" {
		t.Errorf("unexpected input: %+v", input)
	}
	if !strings.Contains(input.DraftText, "Amoxicillin") || len(input.Chunks) != 1 {
		t.Errorf("run content not loaded: %+v", input)
	}
}

func TestLoadManifestRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.yaml", `runs:
  - title: uden id
    draft: draft.md
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for missing run id")
	}
}
