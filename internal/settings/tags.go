package settings

// Tag is a logcat tag filter entry.
type Tag struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Tags is the ordered list of tag filters shown to the user.
type Tags []Tag

// Add appends a selected tag unless one with the same name exists.
func (t *Tags) Add(name string) bool {
	if name == "" || t.index(name) >= 0 {
		return false
	}
	*t = append(*t, Tag{Name: name, Selected: true})
	return true
}

// Remove deletes the named tag.
func (t *Tags) Remove(name string) bool {
	i := t.index(name)
	if i < 0 {
		return false
	}
	*t = append((*t)[:i:i], (*t)[i+1:]...)
	return true
}

// Toggle flips the selection of the named tag and returns its new state.
func (t *Tags) Toggle(name string) (selected, ok bool) {
	i := t.index(name)
	if i < 0 {
		return false, false
	}
	(*t)[i].Selected = !(*t)[i].Selected
	return (*t)[i].Selected, true
}

// Selected returns the names of selected tags in order.
func (t Tags) Selected() []string {
	var names []string
	for _, tag := range t {
		if tag.Selected {
			names = append(names, tag.Name)
		}
	}
	return names
}

func (t Tags) index(name string) int {
	for i, tag := range t {
		if tag.Name == name {
			return i
		}
	}
	return -1
}
