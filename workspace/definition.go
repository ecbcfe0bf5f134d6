package workspace

// Definition resolves the definition site of the commodity under the cursor.
// A commodity is defined by its commodity directive, or failing that by the
// first price or open directive that mentions it; the index picks the site
// with the lowest URI and offset so results are stable.
//
// The second return value is false when the cursor is not on a known
// commodity.
func (w *Workspace) Definition(uri string, pos Position) (Location, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[uri]
	if !ok {
		return Location{}, false
	}

	word := wordAt(doc.Text, OffsetForPosition(doc.Text, pos))
	if word == "" {
		return Location{}, false
	}

	return w.index.CommodityDefinition(word)
}

// wordAt returns the symbol-shaped word surrounding a byte offset.
func wordAt(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}

	start := offset
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}

	end := offset
	for end < len(text) && isWordByte(text[end]) {
		end++
	}

	return text[start:end]
}

func isWordByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '.' || b == '_' || b == '-' || b == '\'':
		return true
	case b >= 0x80:
		return true
	}
	return false
}
