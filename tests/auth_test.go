package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/config"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/middleware"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Repository stub ──────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if !incluirInactivos && !u.Activo {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, u := range r.usuarios {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
	}
}

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, username, pin, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username: username,
		Nombre:   "Usuario de prueba",
		PinHash:  string(hash),
		Rol:      rol,
		Activo:   true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_ConPinCorrecto(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "recepcion", "5212", "administrador")
	svc := service.NewAuthService(repo, testAuthConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion", Pin: "5212"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "recepcion", resp.User.Username)

	// Claims legibles con el mismo secreto.
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "recepcion", claims["username"])
	assert.Equal(t, "administrador", claims["rol"])
}

func TestLogin_PinIncorrecto(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "recepcion", "5212", "operador")
	svc := service.NewAuthService(repo, testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion", Pin: "0000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales inválidas")
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := service.NewAuthService(repo, testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Pin: "5212"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales inválidas")
}

func TestLogin_UsuarioDesactivado(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "recepcion", "5212", "operador")
	svc := service.NewAuthService(repo, testAuthConfig())

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion", Pin: "5212"})
	require.Error(t, err)
}

// ── Middleware ───────────────────────────────────────────────────────────────

func protectedRouter(secret string, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", middleware.JWTAuth(secret))
	grp.GET("/protegido", middleware.RequireRole(roles...), func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return r
}

func TestJWTAuth_SinTokenRechazado(t *testing.T) {
	r := protectedRouter("test-secret", "operador", "administrador")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenValidoPasa(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "recepcion", "5212", "operador")
	svc := service.NewAuthService(repo, testAuthConfig())
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion", Pin: "5212"})
	require.NoError(t, err)

	r := protectedRouter("test-secret", "operador", "administrador")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recepcion")
}

func TestRequireRole_OperadorNoEntraARutaDeAdmin(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "recepcion", "5212", "operador")
	svc := service.NewAuthService(repo, testAuthConfig())
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion", Pin: "5212"})
	require.NoError(t, err)

	r := protectedRouter("test-secret", "administrador")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJWTAuth_SecretoDistintoRechazado(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "recepcion", "5212", "operador")
	svc := service.NewAuthService(repo, testAuthConfig())
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion", Pin: "5212"})
	require.NoError(t, err)

	r := protectedRouter("otro-secreto", "operador")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
