// Package parser extracts tagged comments from source text.
//
// Comment syntax is looked up from a static table keyed by file extension
// (see DetectSyntax). A Parser then checks each line for a comment marker
// followed by an active tag:
//
//	// TODO: message
//	# FIXME(alice): message
//	/* NOTE message */
//
// At most one item is produced per physical line.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harrison/todotree/internal/models"
	"github.com/harrison/todotree/internal/tags"
)

// Fragment is a tag match within a single line
type Fragment struct {
	Tag      string
	Author   string
	Message  string
	Column   int // 1-based rune offset of the tag within the line
	Priority models.Priority
}

// Parser matches comment lines against a tag registry. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	registry *tags.Registry
}

// New creates a parser for the active tags in registry
func New(registry *tags.Registry) *Parser {
	return &Parser{registry: registry}
}

// MatchLine looks for a tagged comment in a single line, considered on its
// own without any block comment opened on a previous line.
func (p *Parser) MatchLine(line string, syntax *Syntax) (Fragment, bool) {
	frag, ok, _ := p.scanLine(line, syntax, nil)
	return frag, ok
}

// ParseContent matches every line of content and returns the items found in
// ascending line order. Block comments left open at the end of a line make the
// following lines comment text until the closing marker. Item.Path is left
// for the caller to fill in.
func (p *Parser) ParseContent(content string, syntax *Syntax) []models.Item {
	var items []models.Item
	var open *BlockPair

	lineNum := 0
	for len(content) > 0 {
		var line string
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			line, content = content[:idx], content[idx+1:]
		} else {
			line, content = content, ""
		}
		lineNum++
		line = strings.TrimSuffix(line, "\r")

		frag, ok, next := p.scanLine(line, syntax, open)
		open = next
		if !ok {
			continue
		}
		items = append(items, models.Item{
			Tag:      frag.Tag,
			Author:   frag.Author,
			Message:  frag.Message,
			Line:     lineNum,
			Column:   frag.Column,
			Priority: frag.Priority,
		})
	}

	return items
}

// scanLine walks the comment regions of a line in order of position and
// returns the first tag match together with the block comment still open at
// the end of the line, if any.
func (p *Parser) scanLine(line string, syntax *Syntax, open *BlockPair) (Fragment, bool, *BlockPair) {
	var (
		found Fragment
		ok    bool
		pos   int
	)

	try := func(start, end int) {
		if ok {
			return
		}
		found, ok = p.matchBody(line, start, end)
	}

	if open != nil {
		end := strings.Index(line, open.End)
		if end < 0 {
			try(0, len(line))
			return found, ok, open
		}
		try(0, end)
		pos = end + len(open.End)
		open = nil
	}

	if syntax == nil {
		return found, ok, nil
	}

	// Markers after a line comment has started are still tried for a tag,
	// but they cannot open a block that carries over to the next line.
	inLineComment := false
	for pos < len(line) && !(ok && inLineComment) {
		idx, marker, block := nextMarker(line, pos, syntax)
		if idx < 0 {
			break
		}

		bodyStart := idx + len(marker)
		if block == nil {
			inLineComment = true
			try(bodyStart, len(line))
			pos = bodyStart
			continue
		}

		end := strings.Index(line[bodyStart:], block.End)
		if end < 0 {
			try(bodyStart, len(line))
			if inLineComment {
				break
			}
			return found, ok, block
		}
		try(bodyStart, bodyStart+end)
		pos = bodyStart + end + len(block.End)
	}

	return found, ok, nil
}

// nextMarker finds the earliest comment marker at or after pos. On ties the
// longest marker wins, so "--[[" beats "--". block is nil for line comments.
func nextMarker(line string, pos int, syntax *Syntax) (int, string, *BlockPair) {
	bestIdx := -1
	var bestMarker string
	var bestBlock *BlockPair

	consider := func(marker string, block *BlockPair) {
		if marker == "" {
			return
		}
		i := strings.Index(line[pos:], marker)
		if i < 0 {
			return
		}
		i += pos
		if bestIdx < 0 || i < bestIdx || (i == bestIdx && len(marker) > len(bestMarker)) {
			bestIdx, bestMarker, bestBlock = i, marker, block
		}
	}

	for _, prefix := range syntax.LinePrefixes {
		consider(prefix, nil)
	}
	for i := range syntax.Blocks {
		consider(syntax.Blocks[i].Start, &syntax.Blocks[i])
	}

	return bestIdx, bestMarker, bestBlock
}

// matchBody checks whether the comment text line[start:end] begins with an
// active tag. Only whitespace and punctuation may precede the tag; after it
// an optional "(author)" and then ':', whitespace or the end of the comment.
func (p *Parser) matchBody(line string, start, end int) (Fragment, bool) {
	i := start
	for i < end {
		r, size := utf8.DecodeRuneInString(line[i:end])
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			break
		}
		i += size
	}

	j := i
	for j < end && isIdentByte(line[j]) {
		j++
	}
	if j == i {
		return Fragment{}, false
	}

	def, ok := p.registry.Lookup(line[i:j])
	if !ok {
		return Fragment{}, false
	}

	k := j
	var author string
	if k < end && line[k] == '(' {
		closeIdx := strings.IndexByte(line[k:end], ')')
		if closeIdx < 0 {
			return Fragment{}, false
		}
		author = strings.TrimSpace(line[k+1 : k+closeIdx])
		k += closeIdx + 1
	}

	// The tag ends at a colon, whitespace or the end of the comment.
	// Other punctuation ("TODO-", "TODO,") is not a separator.
	switch {
	case k == end:
	case line[k] == ':':
		k++
	case line[k] == ' ' || line[k] == '\t':
	default:
		return Fragment{}, false
	}

	return Fragment{
		Tag:      def.Name,
		Author:   author,
		Message:  strings.TrimSpace(line[k:end]),
		Column:   utf8.RuneCountInString(line[:i]) + 1,
		Priority: def.Priority,
	}, true
}

func isIdentByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
