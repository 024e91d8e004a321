package vt

// The core never touches fonts itself; rendering hosts do. These
// interfaces pin down the contract a host-provided locator crosses
// with the core so lookups stay injectable instead of leaning on a
// process wide singleton.

// FontDescription names a face the host wants resolved.
type FontDescription struct {
	Family string
	Bold   bool
	Italic bool
}

// FontSource points at one concrete face backing a description.
type FontSource struct {
	Path  string
	Index int
}

// FontLocator resolves descriptions to the sources that can render
// them. All enumerates everything the locator knows about.
type FontLocator interface {
	Locate(d FontDescription) []FontSource
	All() []FontSource
}

// FontResolver caches locator answers per description. One resolver
// is expected per screen family; sharing one is the host's choice,
// not a package level default.
type FontResolver struct {
	loc   FontLocator
	cache map[FontDescription][]FontSource
}

func NewFontResolver(loc FontLocator) *FontResolver {
	return &FontResolver{
		loc:   loc,
		cache: make(map[FontDescription][]FontSource),
	}
}

func (r *FontResolver) Locate(d FontDescription) []FontSource {
	if srcs, ok := r.cache[d]; ok {
		return srcs
	}
	srcs := r.loc.Locate(d)
	r.cache[d] = srcs
	return srcs
}

func (r *FontResolver) All() []FontSource {
	return r.loc.All()
}
