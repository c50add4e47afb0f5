package cache

// ScopedKeyer prefixes every key of an inner Keyer. Journals of different
// projects or users can share one Redis or Mongo backend this way:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "studio-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) JournalKey(docPath string) string {
	return k.prefix + k.inner.JournalKey(docPath)
}

func (k *ScopedKeyer) ReportKey(contentHash string, validators []string) string {
	return k.prefix + k.inner.ReportKey(contentHash, validators)
}
