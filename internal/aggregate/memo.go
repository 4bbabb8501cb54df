package aggregate

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo caches summaries keyed by a content hash of the full input. A change
// to any entry, catalog or holiday produces a different key, so a cached
// summary is never stale; there is no invalidation to forget.
type Memo struct {
	cache *lru.Cache[string, Summary]
}

// NewMemo returns a memo holding up to size summaries. size <= 0 disables
// caching and every call computes.
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		return &Memo{}, nil
	}
	c, err := lru.New[string, Summary](size)
	if err != nil {
		return nil, err
	}
	return &Memo{cache: c}, nil
}

// Compute returns the cached summary for in, computing it on a miss.
func (m *Memo) Compute(in Input) Summary {
	if m == nil || m.cache == nil {
		return Compute(in)
	}
	key := InputHash(in)
	if s, ok := m.cache.Get(key); ok {
		return s.clone()
	}
	s := Compute(in)
	m.cache.Add(key, s.clone())
	return s
}

// Len reports the number of cached summaries.
func (m *Memo) Len() int {
	if m == nil || m.cache == nil {
		return 0
	}
	return m.cache.Len()
}

// InputHash is the SHA-256 of a canonical encoding of in. Every field is
// written length-delimited with floats in their shortest exact form, so NaN
// and infinite hours hash like any other value. The calendar enters the hash
// through the month's workday list.
func InputHash(in Input) string {
	h := keyWriter{hash: sha256.New()}
	h.str(string(in.Month))
	h.str(in.OvertimeCode)

	h.count(len(in.Entries))
	for _, e := range in.Entries {
		h.str(e.Key())
		h.str(e.Code)
		h.str(e.Activity)
		h.str(e.Extract)
		h.str(e.Client)
		h.num(e.Hours)
		h.str(e.Notes)
		h.str(strconv.FormatBool(e.Prefilled))
		h.count(len(e.Tasks))
		for _, t := range e.Tasks {
			h.str(t.Code)
			h.str(t.Activity)
			h.str(t.Extract)
			h.str(t.Client)
			h.num(t.Hours)
			h.str(t.Notes)
		}
	}

	h.count(len(in.Activities))
	for _, a := range in.Activities {
		h.str(a.Code)
		h.str(a.Description)
	}

	h.count(len(in.Extracts))
	for _, ex := range in.Extracts {
		h.str(ex.ID)
		h.str(ex.Code)
		h.str(ex.Description)
		h.str(ex.Client)
		if ex.ExpectedDays == nil {
			h.str("-")
		} else {
			h.num(*ex.ExpectedDays)
		}
	}

	work := WorkDates(in.Month, in.Calendar)
	h.count(len(work))
	for _, d := range work {
		h.str(d)
	}
	return hex.EncodeToString(h.hash.Sum(nil))
}

type keyWriter struct {
	hash hash.Hash
}

func (w keyWriter) str(s string) {
	w.count(len(s))
	io.WriteString(w.hash, s)
}

func (w keyWriter) count(n int) {
	io.WriteString(w.hash, strconv.Itoa(n))
	w.hash.Write([]byte{':'})
}

func (w keyWriter) num(f float64) {
	w.str(strconv.FormatFloat(f, 'g', -1, 64))
}
