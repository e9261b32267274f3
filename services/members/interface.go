package members

import (
	"context"
	"io"

	membersRepo "attendify/database/repository/members"
	"attendify/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MemberService is the member directory.
type MemberService interface {
	ReplaceAll(ctx context.Context, members []models.Member) error
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	ListAll(ctx context.Context) ([]models.Member, error)
	ListByGroup(ctx context.Context, group string) ([]models.Member, error)
	Groups(ctx context.Context) ([]string, error)
}

// DefaultMemberService is the production implementation.
type DefaultMemberService struct {
	Repo     membersRepo.MemberRepository
	Logger   *zap.Logger
	validate *validator.Validate
}

// NewMemberService returns a directory over repo.
func NewMemberService(repo membersRepo.MemberRepository, logger *zap.Logger) *DefaultMemberService {
	return &DefaultMemberService{
		Repo:     repo,
		Logger:   logger,
		validate: newValidator(),
	}
}
