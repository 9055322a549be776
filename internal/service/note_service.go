package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"
)

type NoteService struct {
	NoteRepo *repository.NoteRepository
	Storage  *StorageService
}

func NewNoteService(noteRepo *repository.NoteRepository, storage *StorageService) *NoteService {
	return &NoteService{NoteRepo: noteRepo, Storage: storage}
}

// NoteFile is an attachment uploaded together with a note.
type NoteFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

func (s *NoteService) ListNotes(ctx context.Context, courseID *uint) ([]model.Note, error) {
	return s.NoteRepo.List(ctx, courseID)
}

func (s *NoteService) GetNote(ctx context.Context, id string) (*model.Note, error) {
	return s.NoteRepo.FindByID(ctx, id)
}

// CreateNote stores a note written by uploaderID. A pdf note needs a file, a
// markdown note needs either inline content or a file.
func (s *NoteService) CreateNote(ctx context.Context, note *model.Note, file *NoteFile, uploaderID uint) (*model.Note, error) {
	note.Title = strings.TrimSpace(note.Title)
	if note.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrInvalidNote)
	}
	if note.FileType == "" {
		note.FileType = model.NoteMarkdown
	}
	switch note.FileType {
	case model.NoteMarkdown:
		if note.MarkdownContent == "" && file == nil {
			return nil, fmt.Errorf("%w: markdown content or file is required", util.ErrInvalidNote)
		}
	case model.NotePDF:
		if file == nil {
			return nil, fmt.Errorf("%w: pdf notes need a file", util.ErrInvalidNote)
		}
	default:
		return nil, fmt.Errorf("%w: unknown file type %q", util.ErrInvalidNote, note.FileType)
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	note.UploadedBy = uploaderID

	if file != nil {
		if file.Size > util.MaxNoteFileMB<<20 {
			return nil, fmt.Errorf("%w: file exceeds %d MB", util.ErrInvalidNote, util.MaxNoteFileMB)
		}
		contentType := file.ContentType
		if contentType == "" {
			contentType = util.MimeOctetStream
			if note.FileType == model.NotePDF {
				contentType = util.MimePDF
			}
		}
		key := util.NoteFilePrefix + model.GenerateUUID() + strings.ToLower(path.Ext(file.Name))
		url, err := s.Storage.Upload(ctx, key, file.Reader, file.Size, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload note file: %w", err)
		}
		note.FileKey = key
		note.FileURL = url
	}

	if err := s.NoteRepo.Create(ctx, note); err != nil {
		if note.FileKey != "" {
			s.removeFile(ctx, note.FileKey)
		}
		return nil, err
	}
	return note, nil
}

// DeleteNote removes the note and its stored file.
func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	note, err := s.NoteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.NoteRepo.Delete(ctx, id); err != nil {
		return err
	}
	if note.FileKey != "" {
		s.removeFile(ctx, note.FileKey)
	}
	return nil
}

func (s *NoteService) removeFile(ctx context.Context, key string) {
	if err := s.Storage.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to delete note file", zap.String("key", key), zap.Error(err))
	}
}
