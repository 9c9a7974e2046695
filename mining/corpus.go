package mining

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	titleMarker    = "[t]"
	implicitMarker = "[u]"
	polarityMarker = "[@]"
	bodyDelimiter  = "##"
)

// CorpusOptions controls corpus parsing.
type CorpusOptions struct {
	// MaxSections stops the parse once this many sections have been
	// emitted; 0 reads everything.
	MaxSections int
}

// ParseCorpus reads the annotated line format and produces the section
// table, the explicit-mention table and per-feature-string frequencies.
//
// Line grammar:
//   - a line containing "[t]" starts a new document; the title is everything
//     after the marker, trimmed and lowercased;
//   - a line starting with "*" also starts a new document, the title being
//     everything after the leading "*";
//   - any other line is a body line "annotations##text"; the comma-separated
//     annotations may carry a "[u]" implicit marker and a "[@]"-delimited
//     polarity suffix, which is discarded.
//
// A body line without the "##" delimiter aborts the parse with a
// MalformedLineError carrying the offending 1-based line number.
func ParseCorpus(r io.Reader, opts CorpusOptions) (*Corpus, error) {
	corpus := &Corpus{FeatureFrequency: make(map[string]int)}
	docID := -1
	sectionID := 0
	lineNo := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		var text string
		isTitle := false
		switch {
		case strings.Contains(line, titleMarker):
			docID++
			isTitle = true
			text = normalizeSectionText(strings.SplitN(line, titleMarker, 2)[1])
		case strings.HasPrefix(line, "*"):
			docID++
			isTitle = true
			text = normalizeSectionText(line[1:])
		default:
			idx := strings.Index(line, bodyDelimiter)
			if idx < 0 {
				return nil, &MalformedLineError{Line: lineNo}
			}
			text = normalizeSectionText(line[idx+len(bodyDelimiter):])

			annotations := strings.Split(line[:idx], ",")
			if annotations[0] != "" {
				for _, annotation := range annotations {
					mention := ExplicitMention{
						DocID:      docID,
						SectionID:  sectionID,
						Feature:    strings.SplitN(annotation, polarityMarker, 2)[0],
						IsExplicit: !strings.Contains(annotation, implicitMarker),
					}
					corpus.Mentions = append(corpus.Mentions, mention)
					corpus.FeatureFrequency[mention.Feature]++
				}
			}
		}

		corpus.Sections = append(corpus.Sections, Section{
			DocID:     docID,
			SectionID: sectionID,
			Text:      text,
			IsTitle:   isTitle,
		})
		sectionID++

		if opts.MaxSections > 0 && sectionID >= opts.MaxSections {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	return corpus, nil
}

// ParseCorpusFile opens path and parses it with ParseCorpus. A missing file
// propagates as a fatal error to the caller.
func ParseCorpusFile(path string, opts CorpusOptions) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return ParseCorpus(f, opts)
}
