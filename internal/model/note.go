package model

type NoteFileType string

const (
	NoteMarkdown NoteFileType = "markdown"
	NotePDF      NoteFileType = "pdf"
)

// Note is study material published by a teacher, optionally tied to a course.
type Note struct {
	UUIDBase
	Title           string       `gorm:"size:255;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	MarkdownContent string       `gorm:"type:text" json:"markdownContent,omitempty"`
	CourseID        *uint        `gorm:"index" json:"courseId,omitempty"`
	FileType        NoteFileType `gorm:"size:20;default:'markdown'" json:"fileType"`
	FileURL         string       `gorm:"size:512" json:"fileUrl,omitempty"`
	FileKey         string       `gorm:"size:512" json:"-"`
	Category        string       `gorm:"size:100" json:"category,omitempty"`
	Tags            []string     `gorm:"serializer:json;type:text" json:"tags"`
	UploadedBy      uint         `gorm:"index;not null" json:"uploadedBy"`
	Uploader        *User        `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (Note) TableName() string {
	return "notes"
}
