package world

// Labeled is the capability of objects that carry a display name and tags.
type Labeled interface {
	Label() string
	HasTag(tag string) bool
}

// Label is the component every manifest-spawned object carries.
type Label struct {
	Name string
	Tags []string
}

func (l *Label) Label() string { return l.Name }

func (l *Label) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
