package usecase

import (
	"context"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo        repository.UserRepository
	listingRepo repository.ListingRepository
	revoker     SessionRevoker
	log         *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, listingRepo repository.ListingRepository, revoker SessionRevoker, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, listingRepo: listingRepo, revoker: revoker, log: log}
}

// List usuarios paginados, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context, s access.Session, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := access.Require(s, entity.RoleAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	byRole, err := uc.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byRole {
		total += n
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

// Delete elimina un agricultor o comprador: revoca sus sesiones, retira sus cultivos del marketplace
// y por último borra la cuenta. Si un paso falla la cuenta sigue existiendo y el admin puede reintentar.
// Las cuentas admin no se eliminan desde la API.
func (uc *UserUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	if err := access.Require(s, entity.RoleAdmin); err != nil {
		return err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := uc.revoker.RevokeUserSessions(ctx, id); err != nil {
		uc.log.Error().Err(err).Str("user_id", id).Msg("no se pudieron revocar las sesiones; el usuario no se elimina")
		return err
	}
	if user.Role == entity.RoleFarmer {
		listings, err := uc.listingRepo.List(ctx, repository.ListingFilter{FarmerID: id})
		if err != nil {
			return err
		}
		for _, l := range listings {
			if l.IsActive() {
				if err := uc.listingRepo.UpdateStatus(ctx, l.ID, entity.ListingInactive); err != nil {
					return err
				}
			}
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Str("by", s.UserID).Msg("usuario eliminado")
	return nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
