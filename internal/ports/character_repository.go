package ports

import (
	"context"

	"github.com/bnema/persona-cli/internal/domain"
)

type CharacterRepository interface {
	GetByID(ctx context.Context, id domain.CharacterID) (domain.Character, error)
	List(ctx context.Context) ([]domain.Character, error)
	Save(ctx context.Context, character domain.Character) error
}
