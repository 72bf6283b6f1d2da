package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type commentService struct {
	comments repository.CommentRepo
	clock    clockwork.Clock
}

func NewCommentService(comments repository.CommentRepo, clock clockwork.Clock) CommentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &commentService{comments: comments, clock: clock}
}

func (s *commentService) ListByRecord(ctx context.Context, recordID string) ([]domain.Comment, error) {
	return s.comments.ListByRecord(ctx, recordID)
}

// Create assigns c a persisted id and keeps the timestamp it was stamped
// with when buffered.
func (s *commentService) Create(ctx context.Context, c *domain.Comment) error {
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("comment content is required")
	}
	c.ID = uuid.New().String()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock.Now()
	}
	return s.comments.Create(ctx, c)
}

func (s *commentService) UpdateContent(ctx context.Context, id, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment content is required")
	}
	return s.comments.UpdateContent(ctx, id, content)
}

func (s *commentService) Delete(ctx context.Context, id string) error {
	return s.comments.Delete(ctx, id)
}
