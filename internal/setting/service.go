package setting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/NemecSoft/YunGame/internal/setting/entity"
	"github.com/NemecSoft/YunGame/internal/setting/repo"
	"github.com/NemecSoft/YunGame/pkg/utilities"
)

// Service stores small JSON records grouped by category next to the
// catalog. Library roots are its main user.
type Service struct {
	repo *repo.Repo
}

func NewService(r *repo.Repo) *Service {
	return &Service{repo: r}
}

var (
	ErrNotFound   = errors.New("setting not found")
	ErrNoCategory = errors.New("setting category is required")
)

// List returns settings by category (optional).
func (s *Service) List(ctx context.Context, category string) ([]*entity.Setting, error) {
	return s.repo.List(ctx, category)
}

// Get returns the setting with id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*entity.Setting, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

type recordMeta struct {
	CreatedAt time.Time `json:"created_at"`
}

// Create creates a new setting. A KSUID is assigned when ID is empty and
// JSON fields default to empty objects.
func (s *Service) Create(ctx context.Context, in *entity.Setting) (*entity.Setting, error) {
	if in.Category == "" {
		return nil, ErrNoCategory
	}
	if in.ID == "" {
		in.ID = utilities.NewKSUID()
	}
	if len(in.RecordMeta) == 0 {
		meta, err := json.Marshal(recordMeta{CreatedAt: time.Now().UTC()})
		if err != nil {
			return nil, err
		}
		in.RecordMeta = meta
	}
	if len(in.Metadata) == 0 {
		in.Metadata = jsonRawEmpty()
	}
	if err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// Delete removes the setting with id; ErrNotFound when there is none.
func (s *Service) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func jsonRawEmpty() json.RawMessage { return json.RawMessage("{}") }
