package reconcile

// FolderSet is the ordered registry of data folder names the launcher
// believes exist. It is single-writer: callers serialize reconciliations.
type FolderSet struct {
	names []string
}

// NewFolderSet copies names into a new set, keeping order and duplicates
func NewFolderSet(names ...string) *FolderSet {
	return &FolderSet{names: append([]string(nil), names...)}
}

// Names returns a copy of the current names in order
func (s *FolderSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of entries, duplicates included
func (s *FolderSet) Len() int {
	return len(s.names)
}

// Contains reports whether name is present at least once
func (s *FolderSet) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// RemoveAll drops every occurrence of name and returns how many were removed
func (s *FolderSet) RemoveAll(name string) int {
	kept := s.names[:0]
	removed := 0
	for _, n := range s.names {
		if n == name {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	// Clear the tail so dropped strings are not retained
	for i := len(kept); i < len(s.names); i++ {
		s.names[i] = ""
	}
	s.names = kept
	return removed
}
