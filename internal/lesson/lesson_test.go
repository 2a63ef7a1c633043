// ABOUTME: Tests for the lesson data model
// ABOUTME: Tests unit lookup and counting across chapters
package lesson

import "testing"

func testCourse() Course {
	return Course{
		ID:    NewID(),
		Topic: "photosynthesis",
		Title: "Photosynthesis from First Principles",
		Chapters: []Chapter{
			{
				ID:    "ch-1",
				Title: "Light",
				Units: []Unit{
					{ID: "u-1", Title: "Pigments"},
					{ID: "u-2", Title: "Light reactions"},
				},
			},
			{
				ID:    "ch-2",
				Title: "Carbon",
				Units: []Unit{
					{ID: "u-3", Title: "Calvin cycle"},
				},
			},
		},
	}
}

func TestUnitCount(t *testing.T) {
	course := testCourse()
	if got := course.UnitCount(); got != 3 {
		t.Errorf("expected 3 units, got %d", got)
	}

	empty := Course{}
	if got := empty.UnitCount(); got != 0 {
		t.Errorf("expected 0 units for empty course, got %d", got)
	}
}

func TestFindUnit(t *testing.T) {
	course := testCourse()

	unit, ok := course.FindUnit("u-3")
	if !ok {
		t.Fatal("expected to find u-3")
	}
	if unit.Title != "Calvin cycle" {
		t.Errorf("expected Calvin cycle, got %q", unit.Title)
	}

	if _, ok := course.FindUnit("nope"); ok {
		t.Error("expected lookup miss for unknown ID")
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected distinct IDs")
	}
}
