package controller

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

type LessonRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
	IsFree      bool   `json:"isFree"`
}

type ContentItemRequest struct {
	Type           model.ContentType `json:"type"`
	Title          string            `json:"title" binding:"required"`
	Description    string            `json:"description"`
	VideoURL       string            `json:"videoUrl"`
	ArticleContent string            `json:"articleContent"`
	Duration       string            `json:"duration"`
	Order          int               `json:"order"`
	IsFree         bool              `json:"isFree"`
}

type SubsectionRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Order       int                  `json:"order"`
	Content     []ContentItemRequest `json:"content" binding:"dive"`
}

type SectionRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Order       int                 `json:"order"`
	Subsections []SubsectionRequest `json:"subsections" binding:"dive"`
}

// CreateCourseRequest carries either lessons or sections.
// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title         string            `json:"title" binding:"required"`
	Description   string            `json:"description"`
	Instructor    string            `json:"instructor"`
	Thumbnail     string            `json:"thumbnail"`
	Price         int               `json:"price" binding:"min=0"`
	OriginalPrice int               `json:"originalPrice" binding:"min=0"`
	Duration      string            `json:"duration"`
	Category      string            `json:"category"`
	Level         model.CourseLevel `json:"level"`
	DemoVideoURL  string            `json:"demoVideoUrl"`
	Lessons       []LessonRequest   `json:"lessons" binding:"dive"`
	Sections      []SectionRequest  `json:"sections" binding:"dive"`
}

func (r *CreateCourseRequest) toModel() *model.Course {
	course := &model.Course{
		Title:         r.Title,
		Description:   r.Description,
		Instructor:    r.Instructor,
		Thumbnail:     r.Thumbnail,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Duration:      r.Duration,
		Category:      r.Category,
		Level:         r.Level,
		DemoVideoURL:  r.DemoVideoURL,
	}
	for _, l := range r.Lessons {
		course.Lessons = append(course.Lessons, model.Lesson{
			Title:       l.Title,
			Description: l.Description,
			VideoURL:    l.VideoURL,
			Duration:    l.Duration,
			Order:       l.Order,
			IsFree:      l.IsFree,
		})
	}
	for _, s := range r.Sections {
		section := model.Section{Title: s.Title, Description: s.Description, Order: s.Order}
		for _, sub := range s.Subsections {
			subsection := model.Subsection{Title: sub.Title, Description: sub.Description, Order: sub.Order}
			for _, item := range sub.Content {
				subsection.Content = append(subsection.Content, model.ContentItem{
					Type:           item.Type,
					Title:          item.Title,
					Description:    item.Description,
					VideoURL:       item.VideoURL,
					ArticleContent: item.ArticleContent,
					Duration:       item.Duration,
					Order:          item.Order,
					IsFree:         item.IsFree,
				})
			}
			section.Subsections = append(section.Subsections, subsection)
		}
		course.Sections = append(course.Sections, section)
	}
	return course
}

// @Summary List courses
// @Tags Courses
// @Produce json
// @Param category query string false "category"
// @Param level query string false "beginner, intermediate or advanced"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(ctx.Request.Context(), repository.CourseFilter{
		Category: ctx.Query("category"),
		Level:    model.CourseLevel(ctx.Query("level")),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: courses, Count: len(courses)})
}

// @Summary Get a course with its content and lesson total
// @Tags Courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCourseRequest true "course"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), req.toModel())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary Delete a course
// @Tags Courses
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
