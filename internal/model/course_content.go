package model

// CourseContent is the learnable-unit structure of a course. It is one of
// FlatContent or SectionedContent.
type CourseContent interface {
	layout() ContentLayout
}

type FlatContent struct {
	Lessons []Lesson
}

type SectionedContent struct {
	Sections []Section
}

func (FlatContent) layout() ContentLayout      { return LayoutFlat }
func (SectionedContent) layout() ContentLayout { return LayoutSectioned }

// Content returns the variant selected by the course layout. A course with an
// unset layout is flat. Rows loaded for the other layout are ignored.
func (c *Course) Content() CourseContent {
	if c.Layout == LayoutSectioned {
		return SectionedContent{Sections: c.Sections}
	}
	return FlatContent{Lessons: c.Lessons}
}

// CountLearnableUnits returns the number of learnable units in content.
// Absent subsections or content lists count as zero.
func CountLearnableUnits(content CourseContent) int {
	switch c := content.(type) {
	case SectionedContent:
		total := 0
		for _, section := range c.Sections {
			for _, sub := range section.Subsections {
				total += len(sub.Content)
			}
		}
		return total
	case FlatContent:
		return len(c.Lessons)
	default:
		return 0
	}
}

// UnitIDs lists the ids of all learnable units in content order.
func UnitIDs(content CourseContent) []string {
	var ids []string
	switch c := content.(type) {
	case SectionedContent:
		for _, section := range c.Sections {
			for _, sub := range section.Subsections {
				for _, item := range sub.Content {
					ids = append(ids, item.ID)
				}
			}
		}
	case FlatContent:
		for _, lesson := range c.Lessons {
			ids = append(ids, lesson.ID)
		}
	}
	return ids
}

// HasUnit reports whether unitID names a learnable unit of content.
func HasUnit(content CourseContent, unitID string) bool {
	for _, id := range UnitIDs(content) {
		if id == unitID {
			return true
		}
	}
	return false
}
