package synth

// Voice is a read-only snapshot of a platform-exposed voice. Identity is
// the name+language composite key; Index is only a display/sort hint and
// never used for selection, since catalog order can change between query
// and selection.
type Voice struct {
	// Index is the position in the catalog at snapshot time.
	Index int

	// Name is the platform voice name.
	Name string

	// Language is the BCP-47-ish language tag.
	Language string
}

// Key returns the stable identity of a voice.
func (v Voice) Key() string {
	if v.Name == "" {
		return ""
	}
	return v.Name + "/" + v.Language
}

// ResolveVoice finds the voice with the given key in a catalog snapshot.
// A bare voice name matches the first voice carrying it. An empty or
// unknown key resolves to the zero Voice, which engines treat as the
// platform default.
func ResolveVoice(voices []Voice, key string) Voice {
	if key == "" {
		return Voice{}
	}
	for _, v := range voices {
		if v.Key() == key {
			return v
		}
	}
	for _, v := range voices {
		if v.Name == key {
			return v
		}
	}
	return Voice{}
}
