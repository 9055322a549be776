package repository

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

type CourseFilter struct {
	Category string
	Level    model.CourseLevel
}

func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}})
}

// withContent preloads the unit tree of whichever layout the course uses.
func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lessons", byOrder).
		Preload("Sections", byOrder).
		Preload("Sections.Subsections", byOrder).
		Preload("Sections.Subsections.Content", byOrder)
}

// Create inserts the course together with its lessons or section tree.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(course).Error; err != nil {
			return err
		}

		for i := range course.Lessons {
			course.Lessons[i].CourseID = course.ID
		}
		for i := range course.Sections {
			section := &course.Sections[i]
			section.CourseID = course.ID
			for j := range section.Subsections {
				for k := range section.Subsections[j].Content {
					section.Subsections[j].Content[k].CourseID = course.ID
				}
			}
		}

		if len(course.Lessons) > 0 {
			if err := tx.Create(&course.Lessons).Error; err != nil {
				return err
			}
		}
		if len(course.Sections) > 0 {
			if err := tx.Create(&course.Sections).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindCourseByID loads a course with its full content shape.
func (r *CourseRepository) FindCourseByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := withContent(r.DB.WithContext(ctx)).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	query := r.DB.WithContext(ctx).Model(&model.Course{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}

	var courses []model.Course
	if err := withContent(query).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) IncrementStudents(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", id).
		UpdateColumn("students_enrolled", gorm.Expr("students_enrolled + ?", 1)).Error
}
