package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	base := &Frame{
		SessionID: "sess-1",
		Revision:  1,
		Class:     "animated-content",
		Elements: []ElementFrame{
			{Key: 0, Label: "zero", State: Shown, Rendered: true, Class: "a", Style: "s"},
		},
	}

	tests := []struct {
		name     string
		old      *Frame
		new      *Frame
		wantDiff *FrameDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  base,
			wantDiff: &FrameDiff{
				SessionID: "sess-1",
				Revision:  1,
				Container: &ContainerDelta{Class: "animated-content"},
				Changed:   base.Elements,
			},
		},
		{
			name:     "No Changes",
			old:      base,
			new:      &Frame{SessionID: "sess-1", Revision: 2, Class: "animated-content", Elements: base.Elements},
			wantDiff: nil,
		},
		{
			name: "Element Changed And Added",
			old:  base,
			new: &Frame{
				SessionID: "sess-1",
				Revision:  2,
				Class:     "animated-content",
				Elements: []ElementFrame{
					{Key: 1, Label: "one", State: Showing, Rendered: true},
					{Key: 0, Label: "zero", State: Hiding, Rendered: true, Class: "a", Style: "s"},
				},
			},
			wantDiff: &FrameDiff{
				SessionID: "sess-1",
				Revision:  2,
				Changed: []ElementFrame{
					{Key: 1, Label: "one", State: Showing, Rendered: true},
					{Key: 0, Label: "zero", State: Hiding, Rendered: true, Class: "a", Style: "s"},
				},
			},
		},
		{
			name: "Element Removed",
			old:  base,
			new:  &Frame{SessionID: "sess-1", Revision: 3, Class: "animated-content"},
			wantDiff: &FrameDiff{
				SessionID: "sess-1",
				Revision:  3,
				Removed:   []int{0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.MarshalIndent(got, "", "  ")
				wantJSON, _ := json.MarshalIndent(tt.wantDiff, "", "  ")
				t.Errorf("Diff() mismatch\nGot:\n%s\nWant:\n%s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDiff_NilNew(t *testing.T) {
	if got := Diff(&Frame{}, nil); got != nil {
		t.Errorf("expected nil diff, got %+v", got)
	}
}
