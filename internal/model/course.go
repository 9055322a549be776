package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

// ContentLayout tells which of the two content shapes a course uses.
type ContentLayout string

const (
	LayoutFlat      ContentLayout = "flat"
	LayoutSectioned ContentLayout = "sectioned"
)

type Course struct {
	BaseModel
	Title            string        `gorm:"size:255;not null" json:"title"`
	Description      string        `gorm:"type:text" json:"description"`
	Instructor       string        `gorm:"size:255" json:"instructor"`
	Thumbnail        string        `gorm:"size:512" json:"thumbnail"`
	Price            int           `gorm:"default:0" json:"price"`
	OriginalPrice    int           `gorm:"default:0" json:"originalPrice"`
	Rating           float64       `gorm:"default:0" json:"rating"`
	StudentsEnrolled int           `gorm:"default:0" json:"studentsEnrolled"`
	Duration         string        `gorm:"size:50" json:"duration"`
	Category         string        `gorm:"size:100;index" json:"category"`
	Level            CourseLevel   `gorm:"size:20;default:'beginner'" json:"level"`
	DemoVideoURL     string        `gorm:"size:512" json:"demoVideoUrl"`
	Layout           ContentLayout `gorm:"size:20;default:'flat'" json:"layout"`
	Lessons          []Lesson      `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Sections         []Section     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Lesson is a learnable unit of a flat course.
type Lesson struct {
	UUIDBase
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	VideoURL    string `gorm:"size:512" json:"videoUrl"`
	Duration    string `gorm:"size:50" json:"duration"`
	Order       int    `gorm:"default:0" json:"order"`
	IsFree      bool   `gorm:"default:false" json:"isFree"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Section struct {
	BaseModel
	CourseID    uint         `gorm:"index;not null" json:"courseId"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Order       int          `gorm:"default:0" json:"order"`
	Subsections []Subsection `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"subsections,omitempty"`
}

func (Section) TableName() string {
	return "course_sections"
}

type Subsection struct {
	BaseModel
	SectionID   uint          `gorm:"index;not null" json:"sectionId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Order       int           `gorm:"default:0" json:"order"`
	Content     []ContentItem `gorm:"foreignKey:SubsectionID;constraint:OnDelete:CASCADE" json:"content,omitempty"`
}

func (Subsection) TableName() string {
	return "course_subsections"
}

type ContentType string

const (
	ContentVideo      ContentType = "video"
	ContentArticle    ContentType = "article"
	ContentQuiz       ContentType = "quiz"
	ContentAssignment ContentType = "assignment"
)

func ValidContentType(t ContentType) bool {
	switch t {
	case ContentVideo, ContentArticle, ContentQuiz, ContentAssignment:
		return true
	}
	return false
}

// ContentItem is a learnable unit of a sectioned course. Every type counts
// as exactly one unit.
type ContentItem struct {
	UUIDBase
	SubsectionID   uint        `gorm:"index;not null" json:"subsectionId"`
	CourseID       uint        `gorm:"index;not null" json:"courseId"`
	Type           ContentType `gorm:"size:20;default:'video'" json:"type"`
	Title          string      `gorm:"size:255;not null" json:"title"`
	Description    string      `gorm:"type:text" json:"description"`
	VideoURL       string      `gorm:"size:512" json:"videoUrl,omitempty"`
	ArticleContent string      `gorm:"type:text" json:"articleContent,omitempty"`
	Duration       string      `gorm:"size:50" json:"duration"`
	Order          int         `gorm:"default:0" json:"order"`
	IsFree         bool        `gorm:"default:false" json:"isFree"`
}

func (ContentItem) TableName() string {
	return "course_content_items"
}
