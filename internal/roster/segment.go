package roster

// MaxBlockTokens bounds how many tokens after a court marker are captured
// when no closing marker shows up.
const MaxBlockTokens = 49

// Segment opens one Block per court-marker token, in document order. A block
// captures the following tokens up to (exclusive) the next court marker or
// MaxBlockTokens, whichever comes first.
func Segment(tokens []string) []Block {
	var blocks []Block
	for i, tok := range tokens {
		if !IsCourtMarker(tok) {
			continue
		}
		end := i + 1
		for end < len(tokens) && end-i <= MaxBlockTokens && !IsCourtMarker(tokens[end]) {
			end++
		}
		blocks = append(blocks, Block{Court: tok, Tokens: tokens[i+1 : end]})
	}
	return blocks
}

// Split cuts a block into appointment spans. Span k ends at (and includes)
// the k-th person-title token; tokens after the last title are dropped.
// A block without any title yields no spans.
func Split(b Block) []Span {
	var spans []Span
	start := 0
	for i, tok := range b.Tokens {
		if !IsPersonTitle(tok) {
			continue
		}
		spans = append(spans, Span{Start: start, End: i + 1})
		start = i + 1
	}
	return spans
}
