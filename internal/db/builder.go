package db

// IndexBuilder assembles a JSON index definition. Attributes are top-level
// document keys, each indexed from the path $.<attribute>.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition for the named index.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix sets the key prefix the index covers.
func (b *IndexBuilder) Prefix(prefix string) *IndexBuilder {
	b.def.Prefix = prefix
	return b
}

func (b *IndexBuilder) add(kind FieldKind, sortable bool, sep string, attrs []string) *IndexBuilder {
	for _, a := range attrs {
		b.def.Fields = append(b.def.Fields, IndexField{
			Path:      "$." + a,
			Attribute: a,
			Kind:      kind,
			Sortable:  sortable,
			Separator: sep,
		})
	}
	return b
}

// Tag adds exact-match attributes.
func (b *IndexBuilder) Tag(attrs ...string) *IndexBuilder {
	return b.add(FieldTag, false, "", attrs)
}

// List adds tag attributes holding several values joined by separator.
func (b *IndexBuilder) List(separator string, attrs ...string) *IndexBuilder {
	return b.add(FieldTag, false, separator, attrs)
}

// Text adds full-text attributes.
func (b *IndexBuilder) Text(attrs ...string) *IndexBuilder {
	return b.add(FieldText, false, "", attrs)
}

// Numeric adds range-filterable attributes.
func (b *IndexBuilder) Numeric(attrs ...string) *IndexBuilder {
	return b.add(FieldNumeric, false, "", attrs)
}

// SortableNumeric adds numeric attributes usable with SORTBY.
func (b *IndexBuilder) SortableNumeric(attrs ...string) *IndexBuilder {
	return b.add(FieldNumeric, true, "", attrs)
}

// Vector adds the HNSW vector attribute.
func (b *IndexBuilder) Vector(attr string, opts VectorOptions) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Path:      "$." + attr,
		Attribute: attr,
		Kind:      FieldVector,
		Vector:    &opts,
	})
	return b
}

// Build validates and returns a copy of the definition; the builder stays reusable.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	def := b.def
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
