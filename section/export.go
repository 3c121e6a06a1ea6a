package section

// ToMap flattens the subtree into nested maps of native Go values,
// suitable for YAML or JSON encoding. Content entries come first; a
// subsection sharing a content key overwrites it.
func (s *Section) ToMap() map[string]any {
	out := make(map[string]any, len(s.keys)+len(s.order))
	for _, key := range s.keys {
		out[key] = s.content[key].Export()
	}

	for _, name := range s.order {
		out[name] = s.children[name].ToMap()
	}

	return out
}
