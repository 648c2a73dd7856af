package domain

// FrameDiff represents the changes between two frames of one session.
// It is designed to be serialized to JSON for partial updates on the client.
type FrameDiff struct {
	SessionID string `json:"session_id"`
	Revision  int64  `json:"revision"`

	// Container is set when the container class or style changed.
	Container *ContainerDelta `json:"container,omitempty"`

	// Changed holds elements that were added or whose output changed.
	Changed []ElementFrame `json:"changed,omitempty"`

	// Removed holds keys of elements no longer present.
	Removed []int `json:"removed,omitempty"`
}

// ContainerDelta carries the new container attributes.
type ContainerDelta struct {
	Class string `json:"class"`
	Style string `json:"style"`
}

// Diff calculates the difference between oldFrame and newFrame.
// If oldFrame is nil, it returns a diff representing the entire newFrame.
// It returns nil when nothing changed.
func Diff(oldFrame, newFrame *Frame) *FrameDiff {
	if newFrame == nil {
		return nil
	}

	diff := &FrameDiff{
		SessionID: newFrame.SessionID,
		Revision:  newFrame.Revision,
	}

	if oldFrame == nil || oldFrame.Class != newFrame.Class || oldFrame.Style != newFrame.Style {
		diff.Container = &ContainerDelta{Class: newFrame.Class, Style: newFrame.Style}
	}

	previous := make(map[int]ElementFrame)
	if oldFrame != nil {
		for _, el := range oldFrame.Elements {
			previous[el.Key] = el
		}
	}

	seen := make(map[int]bool, len(newFrame.Elements))
	for _, el := range newFrame.Elements {
		seen[el.Key] = true
		if old, ok := previous[el.Key]; !ok || old != el {
			diff.Changed = append(diff.Changed, el)
		}
	}

	if oldFrame != nil {
		for _, el := range oldFrame.Elements {
			if !seen[el.Key] {
				diff.Removed = append(diff.Removed, el.Key)
			}
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *FrameDiff) IsEmpty() bool {
	return d.Container == nil &&
		len(d.Changed) == 0 &&
		len(d.Removed) == 0
}
