package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-pro/internal/application/auth"
	"github.com/tu-usuario/tienda-pro/internal/application/dto"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/tienda-pro/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(u *entity.User) error { r.users[u.ID] = u; return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) Update(u *entity.User) error { r.users[u.ID] = u; return nil }

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret      = "test-secret"
	testIssuer      = "tienda-pro-test"
	testCompanyID   = "company-1"
	testWarehouseID = "warehouse-1"
)

func buildUseCase() (*auth.UseCase, *fakeUserRepo) {
	userRepo := &fakeUserRepo{users: make(map[string]*entity.User)}
	warehouseRepo := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWarehouseID: {ID: testWarehouseID, CompanyID: testCompanyID, Name: "Principal"},
	}}
	return auth.NewUseCase(userRepo, warehouseRepo, testSecret, testIssuer, 60), userRepo
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		CompanyID: testCompanyID,
		Email:     "vendedora@tienda.com",
		Password:  "superclave123",
		Name:      "Laura",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_RolPorDefectoEsVendedor(t *testing.T) {
	uc, repo := buildUseCase()
	out, err := uc.Register(registerRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, out.Role)
	assert.Equal(t, "active", out.Status)

	u := repo.users[out.ID]
	require.NotNil(t, u)
	assert.NotEqual(t, "superclave123", u.PasswordHash,
		"la contraseña nunca se guarda en claro")
}

func TestRegister_PasswordCortaEsInvalida(t *testing.T) {
	uc, _ := buildUseCase()
	in := registerRequest()
	in.Password = "corta"
	_, err := uc.Register(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmailDuplicadoEnLaEmpresa(t *testing.T) {
	uc, _ := buildUseCase()
	_, err := uc.Register(registerRequest())
	require.NoError(t, err)

	_, err = uc.Register(registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_BodegaDeOtraEmpresaEsInvalida(t *testing.T) {
	uc, _ := buildUseCase()
	in := registerRequest()
	in.Role = entity.RoleBodeguero
	in.WarehouseIDs = []string{"bodega-ajena"}
	_, err := uc.Register(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"las bodegas asignadas deben existir y pertenecer a la empresa")
}

func TestRegister_ConBodegasValidas(t *testing.T) {
	uc, _ := buildUseCase()
	in := registerRequest()
	in.Role = entity.RoleBodeguero
	in.WarehouseIDs = []string{testWarehouseID}
	out, err := uc.Register(in)
	require.NoError(t, err)
	assert.Equal(t, []string{testWarehouseID}, out.WarehouseIDs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConIdentidadCompleta(t *testing.T) {
	uc, _ := buildUseCase()
	in := registerRequest()
	in.Role = entity.RoleBodeguero
	in.WarehouseIDs = []string{testWarehouseID}
	reg, err := uc.Register(in)
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: in.Email, Password: in.Password})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)
	assert.Equal(t, testCompanyID, claims.CompanyID)
	assert.Equal(t, entity.RoleBodeguero, claims.Role)
	assert.Equal(t, []string{testWarehouseID}, claims.WarehouseIDs,
		"las bodegas permitidas viajan en el token")
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := buildUseCase()
	in := registerRequest()
	_, err := uc.Register(in)
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: in.Email, Password: "otra-clave-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistenteRespondeIgualQueClaveMala(t *testing.T) {
	uc, _ := buildUseCase()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@tienda.com", Password: "loquesea123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"usuario inexistente y clave incorrecta responden igual")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, repo := buildUseCase()
	in := registerRequest()
	out, err := uc.Register(in)
	require.NoError(t, err)
	repo.users[out.ID].Status = "suspended"

	_, err = uc.Login(dto.LoginRequest{Email: in.Email, Password: in.Password})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Me
// ──────────────────────────────────────────────────────────────────────────────

func TestMe_UsuarioInexistente(t *testing.T) {
	uc, _ := buildUseCase()
	_, err := uc.Me("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
