package model

// EvidenceChunk is a unit of retrieved source text produced by the upstream
// retrieval stage. Chunks are read-only inputs here.
type EvidenceChunk struct {
	ID          string        `json:"id"`
	RunID       string        `json:"run_id"`
	SourceID    string        `json:"source_id"`
	Text        string        `json:"text"`
	ChunkIndex  int           `json:"chunk_index"`
	StartOffset int           `json:"start_offset"`
	EndOffset   int           `json:"end_offset"`
	Metadata    ChunkMetadata `json:"metadata"`
}

// ChunkMetadata carries source descriptors attached by the retrieval stage.
type ChunkMetadata struct {
	SourceTitle string `json:"source_title,omitempty"`
	SourceType  string `json:"source_type,omitempty"`
	SourceYear  int    `json:"source_year,omitempty"` // Publication year, 0 if unknown
}

// BindingType classifies how a claim was linked to evidence
type BindingType string

const (
	BindingSourceRef BindingType = "source_ref" // Claim's declared citation matched a known source
	BindingKeyword   BindingType = "keyword"    // Lexical overlap between claim and chunk
)

// ClaimEvidenceLink associates a claim with one supporting evidence chunk.
// Links are created by the binder and never mutated.
type ClaimEvidenceLink struct {
	ClaimID         string      `json:"claim_id"`
	EvidenceChunkID string      `json:"evidence_chunk_id"`
	BindingType     BindingType `json:"binding_type"`
	BindingScore    float64     `json:"binding_score"` // In [0,1]
}
