// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wrap/segment.go
// Summary: Greedy word wrap of measured clusters into visual segments.

package wrap

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// Segment word-wraps the line to width pixels. Words are packed greedily;
// a word that does not fit moves to a new segment whole, unless it already
// started the segment, in which case it is broken at the last cluster that
// fits. Trailing whitespace may hang past the edge. A non-positive width
// keeps the line on one segment.
//
// The same clusters, words and width always produce the same segments.
func (l *Line) Segment(width int) error {
	l.width = width
	if len(l.clusters) == 0 {
		l.segments = append(l.segments[:0], 0, 0)
		return nil
	}
	if width <= 0 {
		l.layoutSingle()
		return nil
	}

	limit := fixed.I(width)
	words := l.wordClusters()
	eol := len(l.clusters) - 1

	l.segments = append(l.segments[:0], 0)
	seg := 0
	segStart := 0
	wordsOnSeg := 0
	var adv fixed.Int26_6

	next := 0
	for w := 0; w < len(words); {
		word := words[w]
		if next < word.Offset {
			next = word.Offset
		}

		fits := true
		for next < word.End() {
			c := &l.clusters[next]
			if adv+c.Advance > limit && next != segStart && !l.isSpace(next) {
				fits = false
				break
			}
			c.Segment = seg
			c.Left = adv
			c.Hidden = false
			adv += c.Advance
			next++
		}
		if fits {
			wordsOnSeg++
			w++
			continue
		}

		start := next
		if wordsOnSeg > 0 {
			// Move the whole word down.
			start = word.Offset
		}
		if seg+1 >= l.maxSegments {
			l.hideFrom(start, seg, adv)
			l.segments = append(l.segments, len(l.clusters))
			return fmt.Errorf("%w: %d segments", ErrSegmentLimit, l.maxSegments)
		}
		seg++
		l.segments = append(l.segments, start)
		segStart = start
		next = start
		wordsOnSeg = 0
		adv = 0
	}

	end := &l.clusters[eol]
	end.Segment = seg
	end.Left = adv
	l.segments = append(l.segments, len(l.clusters))
	return nil
}

// layoutSingle places every cluster on segment zero.
func (l *Line) layoutSingle() {
	var adv fixed.Int26_6
	for i := range l.clusters {
		c := &l.clusters[i]
		c.Segment = 0
		c.Left = adv
		c.Hidden = false
		adv += c.Advance
	}
	l.segments = append(l.segments[:0], 0, len(l.clusters))
}

// hideFrom keeps clusters from index on the last segment, invisible.
func (l *Line) hideFrom(index, seg int, adv fixed.Int26_6) {
	for i := index; i < len(l.clusters); i++ {
		c := &l.clusters[i]
		c.Segment = seg
		c.Left = adv
		c.Hidden = !c.EOL
	}
}

func (l *Line) isSpace(i int) bool {
	c := l.clusters[i]
	if c.EOL || c.Text == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(c.Text)
	return unicode.IsSpace(r)
}

// wordClusters converts the word ranges into cluster index ranges that
// cover every visible cluster exactly once, in order. The end-of-line
// cluster is never part of a word.
func (l *Line) wordClusters() []Range {
	words := unicodeWords(l.text)
	if len(l.words) > 0 {
		words = mergeWords(l.words, words)
	}

	eol := len(l.clusters) - 1
	out := make([]Range, 0, len(words)+1)
	pos := 0
	for _, w := range words {
		if w.Length <= 0 || w.Offset >= l.runes {
			continue
		}
		start := l.clusterAt(w.Offset)
		end := l.clusterAt(min(w.End(), l.runes))
		if w.End() < l.runes && l.clusters[end].Offset < w.End() {
			// The range ends inside a cluster; keep the cluster whole.
			end++
		}
		if start < pos {
			start = pos
		}
		if end <= start {
			continue
		}
		if start > pos {
			out = append(out, Range{Offset: pos, Length: start - pos})
		}
		out = append(out, Range{Offset: start, Length: end - start})
		pos = end
	}
	if pos < eol {
		out = append(out, Range{Offset: pos, Length: eol - pos})
	}
	return out
}

// mergeWords keeps the explicit terms and fills the text between them with
// the Unicode words that do not overlap a term. Both lists are ordered.
func mergeWords(terms, words []Range) []Range {
	out := make([]Range, 0, len(terms)+len(words))
	i := 0
	for _, w := range words {
		for i < len(terms) && terms[i].End() <= w.Offset {
			out = append(out, terms[i])
			i++
		}
		if i < len(terms) && terms[i].Offset < w.End() {
			continue
		}
		out = append(out, w)
	}
	return append(out, terms[i:]...)
}

// unicodeWords splits text at Unicode word boundaries (UAX #29).
func unicodeWords(text string) []Range {
	var words []Range
	offset := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		n := utf8.RuneCountInString(word)
		words = append(words, Range{Offset: offset, Length: n})
		offset += n
	}
	return words
}
