package roster

// spanFields are the raw classified fields of one appointment span.
type spanFields struct {
	when string
	what string
	who  []string
}

// classifySpan maps the tokens of span sp (indices into tokens) to fields.
// Location tokens are appended to where, which is shared by the whole block.
//
// A token that is neither time, docket nor title counts as location only if
// the next block token is not a title; otherwise it is the surname in front
// of the title and is picked up by the title branch instead.
func classifySpan(tokens []string, sp Span, where *[]string) spanFields {
	var f spanFields
	for i := sp.Start; i < sp.End; i++ {
		tok := tokens[i]
		switch {
		case IsTime(tok):
			f.when = tok
		case IsDocket(tok):
			f.what = tok
		case IsPersonTitle(tok):
			if i > 0 && !IsDocket(tokens[i-1]) {
				f.who = append(f.who, tokens[i-1])
			}
			f.who = append(f.who, tok)
		default:
			if i+1 < len(tokens) && IsPersonTitle(tokens[i+1]) {
				continue
			}
			*where = append(*where, tok)
		}
	}
	return f
}
