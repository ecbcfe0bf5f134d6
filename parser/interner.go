package parser

// Interner implements string interning to reduce memory usage.
//
// Many strings repeat throughout a ledger file: account names
// ("Assets:Bank:Checking"), currency codes ("USD", "EUR"), and common payees.
// Maintaining a pool of canonical strings lets every occurrence share one
// string instance, which matters when a workspace keeps many parsed files
// resident.
type Interner struct {
	pool map[string]string
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// InternBytes converts a byte slice to a string and interns it.
// This is the common case when working with tokens from the lexer.
func (i *Interner) InternBytes(b []byte) string {
	s := string(b)
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return len(i.pool)
}

// Reset clears the intern pool. Typically the pool is kept across parses of
// the same workspace to maximize sharing.
func (i *Interner) Reset() {
	i.pool = make(map[string]string)
}
