package controller

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	NoteService *service.NoteService
}

func NewNoteController(noteService *service.NoteService) *NoteController {
	return &NoteController{NoteService: noteService}
}

// CreateNoteRequest is accepted as JSON or as multipart form fields, the
// latter optionally with a "file" part.
type CreateNoteRequest struct {
	Title           string             `json:"title" form:"title" binding:"required"`
	Description     string             `json:"description" form:"description"`
	MarkdownContent string             `json:"markdownContent" form:"markdownContent"`
	CourseID        *uint              `json:"courseId" form:"courseId"`
	FileType        model.NoteFileType `json:"fileType" form:"fileType"`
	Category        string             `json:"category" form:"category"`
	Tags            []string           `json:"tags" form:"tags"`
}

// @Summary List notes
// @Tags Notes
// @Produce json
// @Param courseId query int false "only notes of this course"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/notes [get]
func (c *NoteController) ListNotes(ctx *gin.Context) {
	notes, err := c.NoteService.ListNotes(ctx.Request.Context(), util.ParseOptionalUint(ctx.Query("courseId")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: notes, Count: len(notes)})
}

// @Summary Get a note
// @Tags Notes
// @Produce json
// @Param id path string true "note id"
// @Success 200 {object} util.Response{data=model.Note}
// @Failure 404 {object} util.Response
// @Router /api/notes/{id} [get]
func (c *NoteController) GetNote(ctx *gin.Context) {
	note, err := c.NoteService.GetNote(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// @Summary Create a note
// @Tags Notes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body CreateNoteRequest true "note"
// @Success 201 {object} util.Response{data=model.Note}
// @Router /api/notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateNoteRequest
	var file *service.NoteFile
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		if err := ctx.ShouldBind(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		if len(req.Tags) == 1 && strings.Contains(req.Tags[0], ",") {
			req.Tags = splitTags(req.Tags[0])
		}
		if header, err := ctx.FormFile("file"); err == nil {
			f, err := header.Open()
			if err != nil {
				util.BadRequest(ctx, "unreadable file")
				return
			}
			defer f.Close()
			file = &service.NoteFile{
				Name:        header.Filename,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
				Reader:      f,
			}
		}
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note := &model.Note{
		Title:           req.Title,
		Description:     req.Description,
		MarkdownContent: req.MarkdownContent,
		CourseID:        req.CourseID,
		FileType:        req.FileType,
		Category:        req.Category,
		Tags:            req.Tags,
	}
	created, err := c.NoteService.CreateNote(ctx.Request.Context(), note, file, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// @Summary Delete a note
// @Tags Notes
// @Security BearerAuth
// @Param id path string true "note id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	if err := c.NoteService.DeleteNote(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Note deleted"})
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
