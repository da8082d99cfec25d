// Package bind links extracted claims to the evidence chunks that support
// them. Binding runs a two-strategy cascade per claim: declared source
// references first, lexical keyword overlap as the fallback.
package bind

import (
	"regexp"
	"strings"

	"claimgate/internal/model"
)

const (
	// sourceRefFloor is the guaranteed minimum score for a link created from
	// a declared source reference.
	sourceRefFloor = 0.5
	// noKeywordScore is assigned when a claim has no usable keywords at all.
	noKeywordScore = 0.3
	// coverageBoost scales keyword coverage into a binding score.
	coverageBoost = 1.2
)

// Binder links claims to evidence chunks. It holds no mutable state; Bind is
// pure and deterministic for a given input ordering.
type Binder struct {
	keywordThreshold float64
}

// NewBinder creates a binder with the given Jaccard threshold for the
// keyword strategy.
func NewBinder(keywordThreshold float64) *Binder {
	if keywordThreshold <= 0 {
		keywordThreshold = 0.2
	}
	return &Binder{keywordThreshold: keywordThreshold}
}

// Bind links every claim to supporting chunks. Claims no strategy can bind
// are returned in unbound; binding failure is data, never an error.
func (b *Binder) Bind(claims []model.Claim, chunks []model.EvidenceChunk) (links []model.ClaimEvidenceLink, unbound []model.Claim) {
	bySource := make(map[string][]model.EvidenceChunk)
	for _, chunk := range chunks {
		bySource[chunk.SourceID] = append(bySource[chunk.SourceID], chunk)
	}

	links = []model.ClaimEvidenceLink{}
	unbound = []model.Claim{}

	for _, claim := range claims {
		claimLinks := b.bindBySourceRef(claim, bySource)
		if len(claimLinks) == 0 {
			claimLinks = b.bindByKeywords(claim, chunks)
		}
		if len(claimLinks) == 0 {
			unbound = append(unbound, claim)
			continue
		}
		links = append(links, claimLinks...)
	}
	return links, unbound
}

// bindBySourceRef links the claim to every chunk of each declared source that
// exists in the index. Declared-source matches get a floor score of 0.5 even
// when the lexical overlap is poor.
func (b *Binder) bindBySourceRef(claim model.Claim, bySource map[string][]model.EvidenceChunk) []model.ClaimEvidenceLink {
	var out []model.ClaimEvidenceLink
	claimKeywords := Keywords(claim.Text)
	linked := make(map[string]bool)

	for _, ref := range claim.SourceRefs {
		for _, chunk := range bySource[ref] {
			if linked[chunk.ID] {
				continue
			}
			linked[chunk.ID] = true

			score := keywordCoverage(claimKeywords, Keywords(chunk.Text))
			if score < sourceRefFloor {
				score = sourceRefFloor
			}
			out = append(out, model.ClaimEvidenceLink{
				ClaimID:         claim.ID,
				EvidenceChunkID: chunk.ID,
				BindingType:     model.BindingSourceRef,
				BindingScore:    score,
			})
		}
	}
	return out
}

// bindByKeywords links the claim to every chunk whose keyword set overlaps
// enough, measured by Jaccard similarity.
func (b *Binder) bindByKeywords(claim model.Claim, chunks []model.EvidenceChunk) []model.ClaimEvidenceLink {
	claimKeywords := Keywords(claim.Text)

	var out []model.ClaimEvidenceLink
	for _, chunk := range chunks {
		chunkKeywords := Keywords(chunk.Text)
		if jaccard(claimKeywords, chunkKeywords) < b.keywordThreshold {
			continue
		}

		score := noKeywordScore
		if len(claimKeywords) > 0 {
			score = keywordCoverage(claimKeywords, chunkKeywords) * coverageBoost
			if score > 1.0 {
				score = 1.0
			}
		}
		out = append(out, model.ClaimEvidenceLink{
			ClaimID:         claim.ID,
			EvidenceChunkID: chunk.ID,
			BindingType:     model.BindingKeyword,
			BindingScore:    score,
		})
	}
	return out
}

var wordRe = regexp.MustCompile(`[a-z0-9æøåéüö]+`)

// stopWords is a combined English/Danish stop list applied before overlap.
var stopWords = map[string]bool{
	// Danish
	"og": true, "i": true, "på": true, "til": true, "med": true, "for": true,
	"af": true, "der": true, "den": true, "det": true, "de": true, "en": true,
	"et": true, "er": true, "som": true, "ved": true, "kan": true, "skal": true,
	"bør": true, "ikke": true, "eller": true, "hos": true, "om": true,
	"efter": true, "fra": true, "har": true, "hvis": true, "når": true,
	"være": true, "gives": true, "doser": true,
	// English
	"the": true, "and": true, "of": true, "to": true, "in": true, "is": true,
	"are": true, "with": true, "a": true,
	"an": true, "or": true, "be": true, "by": true, "on": true, "at": true,
	"that": true, "this": true, "should": true, "not": true, "may": true,
}

// Keywords tokenizes text into lowercase alphanumeric words (Latin plus
// Danish diacritics), drops stop words and tokens shorter than 3 characters,
// and returns the resulting set.
func Keywords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, token := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(token)) < 3 || stopWords[token] {
			continue
		}
		out[token] = true
	}
	return out
}

// keywordCoverage is |claim ∩ chunk| / |claim|.
func keywordCoverage(claim, chunk map[string]bool) float64 {
	if len(claim) == 0 {
		return 0
	}
	shared := 0
	for token := range claim {
		if chunk[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(claim))
}

// jaccard is |a ∩ b| / |a ∪ b|.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for token := range a {
		if b[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}
