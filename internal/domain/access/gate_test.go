package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

func TestAuthorize(t *testing.T) {
	farmer := []entity.Role{entity.RoleFarmer}

	tests := []struct {
		name     string
		session  access.Session
		required []entity.Role
		want     access.Decision
	}{
		{
			name:     "sesión en verificación espera sin redirigir",
			session:  access.Unknown(),
			required: farmer,
			want:     access.Decision{Outcome: access.OutcomeWait},
		},
		{
			name:     "sin sesión redirige al login, no al inicio",
			session:  access.Unauthenticated(),
			required: farmer,
			want:     access.Decision{Outcome: access.OutcomeRedirect, RedirectTo: access.LoginPath},
		},
		{
			name:     "comprador en vista de agricultor redirige al inicio, no al login",
			session:  access.Authenticated("u1", entity.RoleBuyer),
			required: farmer,
			want:     access.Decision{Outcome: access.OutcomeRedirect, RedirectTo: access.HomePath},
		},
		{
			name:     "agricultor en vista de agricultor",
			session:  access.Authenticated("u1", entity.RoleFarmer),
			required: farmer,
			want:     access.Decision{Outcome: access.OutcomeAllow},
		},
		{
			name:     "sin roles requeridos basta con estar autenticado",
			session:  access.Authenticated("u1", entity.RoleBuyer),
			required: nil,
			want:     access.Decision{Outcome: access.OutcomeAllow},
		},
		{
			name:     "multi-rol",
			session:  access.Authenticated("u1", entity.RoleAdmin),
			required: []entity.Role{entity.RoleFarmer, entity.RoleAdmin},
			want:     access.Decision{Outcome: access.OutcomeAllow},
		},
		{
			name:     "rol vacío no pasa un gate con roles",
			session:  access.Authenticated("u1", ""),
			required: farmer,
			want:     access.Decision{Outcome: access.OutcomeRedirect, RedirectTo: access.HomePath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Authorize(tt.session, tt.required...))
		})
	}
}

func TestAuthorize_NoMutaLaSesion(t *testing.T) {
	s := access.Authenticated("u1", entity.RoleBuyer)
	before := s
	_ = access.Authorize(s, entity.RoleFarmer)
	assert.Equal(t, before, s)
}

func TestAuthorizeView(t *testing.T) {
	d, ok := access.AuthorizeView(access.Unknown(), "/login")
	assert.True(t, ok)
	assert.True(t, d.Allowed(), "las vistas públicas no esperan a la sesión")

	d, ok = access.AuthorizeView(access.Unauthenticated(), "/farmer/dashboard/")
	assert.True(t, ok)
	assert.Equal(t, access.LoginPath, d.RedirectTo)

	d, ok = access.AuthorizeView(access.Authenticated("u1", entity.RoleFarmer), "/marketplace")
	assert.True(t, ok)
	assert.Equal(t, access.HomePath, d.RedirectTo)

	d, ok = access.AuthorizeView(access.Authenticated("u1", entity.RoleFarmer), "/messages")
	assert.True(t, ok)
	assert.True(t, d.Allowed())

	_, ok = access.AuthorizeView(access.Unauthenticated(), "/no-existe")
	assert.False(t, ok)
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/farmer/dashboard", access.HomeFor(entity.RoleFarmer))
	assert.Equal(t, "/buyer/dashboard", access.HomeFor(entity.RoleBuyer))
	assert.Equal(t, "/admin/dashboard", access.HomeFor(entity.RoleAdmin))
	assert.Equal(t, access.HomePath, access.HomeFor(""))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, access.Require(access.Authenticated("u1", entity.RoleAdmin), entity.RoleAdmin))
	assert.NoError(t, access.Require(access.Authenticated("u1", entity.RoleBuyer)))
	assert.ErrorIs(t, access.Require(access.Authenticated("u1", entity.RoleBuyer), entity.RoleFarmer), domain.ErrForbidden)
	assert.ErrorIs(t, access.Require(access.Unauthenticated(), entity.RoleFarmer), domain.ErrUnauthorized)
	assert.ErrorIs(t, access.Require(access.Unknown()), domain.ErrUnauthorized)
}
