package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"fmt"
	"strings"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

// CourseDetail is a course with its learnable-unit count.
type CourseDetail struct {
	*model.Course
	TotalLessons int `json:"totalLessons"`
}

func detail(course *model.Course) CourseDetail {
	return CourseDetail{Course: course, TotalLessons: model.CountLearnableUnits(course.Content())}
}

// CreateCourse validates and stores a course. A course carries either lessons
// or sections, never both; the layout follows from which one is given.
func (s *CourseService) CreateCourse(ctx context.Context, course *model.Course) (*CourseDetail, error) {
	course.Title = strings.TrimSpace(course.Title)
	if course.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrInvalidCourse)
	}
	if len(course.Lessons) > 0 && len(course.Sections) > 0 {
		return nil, fmt.Errorf("%w: lessons and sections are mutually exclusive", util.ErrInvalidCourse)
	}
	if course.Price < 0 || course.OriginalPrice < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", util.ErrInvalidCourse)
	}

	switch course.Level {
	case "":
		course.Level = model.Beginner
	case model.Beginner, model.Intermediate, model.Advanced:
	default:
		return nil, fmt.Errorf("%w: unknown level %q", util.ErrInvalidCourse, course.Level)
	}

	course.Layout = model.LayoutFlat
	if len(course.Sections) > 0 {
		course.Layout = model.LayoutSectioned
	}

	for i := range course.Lessons {
		if strings.TrimSpace(course.Lessons[i].Title) == "" {
			return nil, fmt.Errorf("%w: lesson %d has no title", util.ErrInvalidCourse, i+1)
		}
		if course.Lessons[i].Order == 0 {
			course.Lessons[i].Order = i + 1
		}
	}
	for i := range course.Sections {
		section := &course.Sections[i]
		if section.Order == 0 {
			section.Order = i + 1
		}
		for j := range section.Subsections {
			sub := &section.Subsections[j]
			if sub.Order == 0 {
				sub.Order = j + 1
			}
			for k := range sub.Content {
				item := &sub.Content[k]
				if item.Type == "" {
					item.Type = model.ContentVideo
				}
				if !model.ValidContentType(item.Type) {
					return nil, fmt.Errorf("%w: unknown content type %q", util.ErrInvalidCourse, item.Type)
				}
				if item.Order == 0 {
					item.Order = k + 1
				}
			}
		}
	}

	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	d := detail(course)
	return &d, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := detail(course)
	return &d, nil
}

func (s *CourseService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]CourseDetail, error) {
	courses, err := s.CourseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CourseDetail, len(courses))
	for i := range courses {
		out[i] = detail(&courses[i])
	}
	return out, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uint) error {
	return s.CourseRepo.Delete(ctx, id)
}
