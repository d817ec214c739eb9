package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/pkg/jwt"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

func (c JWTConfig) lifetime() time.Duration {
	return time.Duration(c.ExpMinutes) * time.Minute
}

// ResolvedSession sesión resuelta a partir de un token, con los datos necesarios para cerrarla.
type ResolvedSession struct {
	Session   access.Session
	TokenID   string
	ExpiresAt time.Time
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y resolución de sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionRevocationStore
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions repository.SessionRevocationStore, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// SignUp registra un agricultor o comprador. El rol admin no se puede elegir aquí:
// devuelve ErrForbidden. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.UserResponse, error) {
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !role.SelfAssignable() {
		return nil, domain.ErrForbidden
	}
	return uc.createUser(ctx, in.Email, in.Password, in.Name, role)
}

// ProvisionAdmin crea una cuenta admin. Solo se invoca desde herramientas de operación
// (cmd/provision_admin), nunca desde la API pública. Si el email ya es admin no hace nada.
func (uc *AuthUseCase) ProvisionAdmin(ctx context.Context, email, password, name string) (*dto.UserResponse, bool, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			return nil, false, fmt.Errorf("%w: %s ya existe con rol %s", domain.ErrConflict, existing.Email, existing.Role)
		}
		return toUserResponse(existing), false, nil
	}
	out, err := uc.createUser(ctx, email, password, name, entity.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (uc *AuthUseCase) createUser(ctx context.Context, email, password, name string, role entity.Role) (*dto.UserResponse, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", role.String()).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// SignIn verifica email/password, genera JWT y retorna token, usuario y tablero de inicio.
// Email desconocido y contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      *toUserResponse(user),
		Home:      access.HomeFor(user.Role),
	}, nil
}

// SignOut revoca el token hasta su expiración natural.
func (uc *AuthUseCase) SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrUnauthorized
	}
	ttl := expiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.sessions.RevokeToken(ctx, tokenID, ttl); err != nil {
		return domain.Transient("revoke token", err)
	}
	return nil
}

// ResolveSession convierte un token en una sesión explícita.
//
// Token vacío, inválido, expirado o revocado producen una sesión Unauthenticated sin error.
// Si el store de revocación no responde la sesión también es Unauthenticated (falla cerrada)
// y se devuelve un error ErrTransient para que el cliente pueda reintentar.
func (uc *AuthUseCase) ResolveSession(ctx context.Context, token string) (ResolvedSession, error) {
	anon := ResolvedSession{Session: access.Unauthenticated()}
	if token == "" {
		return anon, nil
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return anon, nil
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil || claims.UserID == "" {
		return anon, nil
	}

	revoked, err := uc.sessions.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return anon, domain.Transient("check token revocation", err)
	}
	if revoked {
		return anon, nil
	}
	at, ok, err := uc.sessions.UserRevokedAt(ctx, claims.UserID)
	if err != nil {
		return anon, domain.Transient("check user revocation", err)
	}
	if ok && claims.IssuedAt != nil && !claims.IssuedAt.Time.After(at.Truncate(time.Second)) {
		return anon, nil
	}

	out := ResolvedSession{
		Session: access.Authenticated(claims.UserID, role),
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// RevokeUserSessions invalida todos los tokens emitidos hasta ahora para userID.
func (uc *AuthUseCase) RevokeUserSessions(ctx context.Context, userID string) error {
	if err := uc.sessions.RevokeUser(ctx, userID, uc.now(), uc.jwtCfg.lifetime()); err != nil {
		return domain.Transient("revoke user sessions", err)
	}
	return nil
}

// Me devuelve el usuario de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
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
