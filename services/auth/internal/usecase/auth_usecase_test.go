package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"geekplay/pkg/jwt"
	"geekplay/pkg/logger"
	"geekplay/pkg/notify"
	"geekplay/pkg/password"
	"geekplay/services/auth/internal/entity"
	"geekplay/services/auth/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(hash, plain string) error {
	args := m.Called(hash, plain)
	return args.Error(0)
}

type MockProfileClient struct {
	mock.Mock
}

func (m *MockProfileClient) CreateProfile(ctx context.Context, userID int64, name, email, role string) error {
	args := m.Called(ctx, userID, name, email, role)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(userID int64, kind notify.Kind, title, message string) {
	m.Called(userID, kind, title, message)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	args := m.Called(key, file, contentType)
	return args.String(0), args.Error(1)
}

const testSecret = "s3cr3t"

type fixture struct {
	users    *MockUserRepository
	hasher   *MockHasher
	profiles *MockProfileClient
	notifier *MockDispatcher
	storage  *MockStorage
	tokens   *jwt.Service
	uc       AuthUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    new(MockUserRepository),
		hasher:   new(MockHasher),
		profiles: new(MockProfileClient),
		notifier: new(MockDispatcher),
		storage:  new(MockStorage),
		tokens:   jwt.NewService("test-signing-key"),
	}
	f.uc = NewAuthUseCase(
		AuthConfig{AdminSecretKey: testSecret, AdminEmailSuffix: "@geekplay.com"},
		f.users, f.hasher, f.tokens, f.profiles, f.notifier, f.storage,
		logger.NewWithOptions("test", "error", io.Discard),
	)
	return f
}

func strPtr(s string) *string { return &s }

func TestRoleFor(t *testing.T) {
	cfg := AuthConfig{AdminSecretKey: testSecret, AdminEmailSuffix: "@geekplay.com"}
	tests := []struct {
		name     string
		cfg      AuthConfig
		email    string
		adminKey *string
		want     entity.UserRole
	}{
		{"suffix and secret", cfg, "ana@geekplay.com", strPtr(testSecret), entity.RoleAdmin},
		{"suffix wrong secret", cfg, "ana@geekplay.com", strPtr("nope"), entity.RoleUser},
		{"suffix no key", cfg, "ana@geekplay.com", nil, entity.RoleUser},
		{"secret other domain", cfg, "ana@other.com", strPtr(testSecret), entity.RoleUser},
		{"suffix not at end", cfg, "ana@geekplay.com.evil.org", strPtr(testSecret), entity.RoleUser},
		{"empty key", cfg, "ana@geekplay.com", strPtr(""), entity.RoleUser},
		{"empty configured secret", AuthConfig{AdminEmailSuffix: "@geekplay.com"}, "ana@geekplay.com", strPtr(""), entity.RoleUser},
		{"empty configured suffix", AuthConfig{AdminSecretKey: testSecret}, "ana@geekplay.com", strPtr(testSecret), entity.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleFor(tt.cfg, tt.email, tt.adminKey))
		})
	}
}

func TestAuthUseCase_Register_Admin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "ana@geekplay.com").Return(nil, persistent.ErrNotFound)
	f.hasher.On("Hash", "pw123456").Return("hashed", nil)
	f.users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == entity.RoleAdmin && u.Password == "hashed" && !u.Banned
	})).Return(nil)
	f.profiles.On("CreateProfile", ctx, int64(42), "Ana", "ana@geekplay.com", "ADMIN").Return(nil)
	f.notifier.On("Dispatch", int64(42), notify.KindWelcome, "¡Bienvenido a GeekPlay!",
		"Hola Ana, gracias por unirte a nuestra comunidad. ¡Explora, publica y comenta!").Return()

	result, err := f.uc.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "ana@geekplay.com",
		Password: "pw123456",
		AdminKey: strPtr(testSecret),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.User.ID)
	assert.Equal(t, entity.RoleAdmin, result.User.Role)
	assert.Empty(t, result.User.Password)

	claims, err := f.tokens.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	f.users.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.notifier.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestAuthUseCase_Register_WrongSecretIsUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "ana@geekplay.com").Return(nil, persistent.ErrNotFound)
	f.hasher.On("Hash", "pw123456").Return("hashed", nil)
	f.users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == entity.RoleUser
	})).Return(nil)
	f.profiles.On("CreateProfile", ctx, int64(42), "Ana", "ana@geekplay.com", "USER").Return(nil)
	f.notifier.On("Dispatch", int64(42), notify.KindWelcome, mock.Anything, mock.Anything).Return()

	result, err := f.uc.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "ana@geekplay.com",
		Password: "pw123456",
		AdminKey: strPtr("wrong"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, result.User.Role)
}

func TestAuthUseCase_Register_ProfileFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "bob@other.com").Return(nil, persistent.ErrNotFound)
	f.hasher.On("Hash", "pw").Return("hashed", nil)
	f.users.On("Create", ctx, mock.Anything).Return(nil)
	f.profiles.On("CreateProfile", ctx, int64(42), "Bob", "bob@other.com", "USER").Return(errors.New("connection refused"))
	f.notifier.On("Dispatch", int64(42), notify.KindWelcome, mock.Anything, mock.Anything).Return()

	result, err := f.uc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@other.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	f.notifier.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestAuthUseCase_Register_EmailTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "bob@other.com").Return(&entity.User{ID: 1}, nil)

	_, err := f.uc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@other.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUseCase_Register_CreateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "bob@other.com").Return(nil, persistent.ErrNotFound)
	f.hasher.On("Hash", "pw").Return("hashed", nil)
	f.users.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	_, err := f.uc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@other.com", Password: "pw"})
	assert.Error(t, err)
	f.profiles.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUseCase_Register_ConcurrentDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Both registrations passed the lookup; the insert hits the unique index.
	f.users.On("GetByEmail", ctx, "bob@other.com").Return(nil, persistent.ErrNotFound)
	f.hasher.On("Hash", "pw").Return("hashed", nil)
	f.users.On("Create", ctx, mock.Anything).Return(persistent.ErrDuplicateEmail)

	_, err := f.uc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@other.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	f.profiles.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUseCase_Login_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "bob@other.com").
		Return(&entity.User{ID: 3, Name: "Bob", Email: "bob@other.com", Password: "hashed", Role: entity.RoleUser}, nil)
	f.hasher.On("Verify", "hashed", "pw").Return(nil)

	result, err := f.uc.Login(ctx, "bob@other.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.User.ID)
	assert.Empty(t, result.User.Password)

	claims, err := f.tokens.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob@other.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestAuthUseCase_Login_UnknownAndWrongPasswordLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "nobody@other.com").Return(nil, persistent.ErrNotFound)
	f.users.On("GetByEmail", ctx, "bob@other.com").
		Return(&entity.User{ID: 3, Email: "bob@other.com", Password: "hashed"}, nil)
	f.hasher.On("Verify", "hashed", "bad").Return(password.ErrMismatch)

	_, errUnknown := f.uc.Login(ctx, "nobody@other.com", "bad")
	_, errWrong := f.uc.Login(ctx, "bob@other.com", "bad")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.Equal(t, "Credenciales inválidas", errWrong.Error())
}

func TestAuthUseCase_Login_BannedChecksBeforePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "eve@other.com").
		Return(&entity.User{ID: 9, Email: "eve@other.com", Password: "hashed", Banned: true, BanReason: strPtr("spam")}, nil)

	for _, pw := range []string{"correct", "wrong"} {
		result, err := f.uc.Login(ctx, "eve@other.com", pw)
		assert.Nil(t, result)
		require.ErrorIs(t, err, ErrAccountSuspended)

		var suspended *SuspendedError
		require.True(t, errors.As(err, &suspended))
		assert.Equal(t, "spam", suspended.Reason)
		assert.Contains(t, err.Error(), "Motivo: spam")
	}
	f.hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestAuthUseCase_Login_BannedWithoutReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "eve@other.com").
		Return(&entity.User{ID: 9, Banned: true, BanReason: strPtr("   ")}, nil)

	_, err := f.uc.Login(ctx, "eve@other.com", "pw")
	require.ErrorIs(t, err, ErrAccountSuspended)
	assert.NotContains(t, err.Error(), "Motivo")
	assert.Equal(t,
		"⛔ Tu cuenta ha sido suspendida.\n\nSi crees que esto es un error, contacta con el administrador.",
		err.Error())
}

func TestAuthUseCase_Login_RepositoryError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "bob@other.com").Return(nil, errors.New("db down"))

	_, err := f.uc.Login(ctx, "bob@other.com", "pw")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUseCase_GetUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByID", ctx, int64(3)).Return(&entity.User{ID: 3, Password: "hashed"}, nil)
	f.users.On("GetByID", ctx, int64(4)).Return(nil, persistent.ErrNotFound)

	user, err := f.uc.GetUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, user.Password)

	_, err = f.uc.GetUser(ctx, 4)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthUseCase_UploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	file := bytes.NewBufferString("png")

	f.storage.On("UploadFile", "avatars/3/a.png", file, "image/png").Return("https://cdn/avatars/3/a.png", nil)
	f.users.On("UpdateAvatar", ctx, int64(3), "https://cdn/avatars/3/a.png").Return(nil)
	f.users.On("GetByID", ctx, int64(3)).Return(&entity.User{ID: 3, AvatarURL: "https://cdn/avatars/3/a.png"}, nil)

	user, err := f.uc.UploadAvatar(ctx, 3, file, "avatars/3/a.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/avatars/3/a.png", user.AvatarURL)
}

func TestAuthUseCase_UploadAvatar_NoStorage(t *testing.T) {
	uc := NewAuthUseCase(AuthConfig{}, new(MockUserRepository), new(MockHasher), jwt.NewService("k"),
		new(MockProfileClient), notify.Nop{}, nil, logger.NewWithOptions("test", "error", io.Discard))

	_, err := uc.UploadAvatar(context.Background(), 3, bytes.NewBufferString("x"), "k", "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAuthUseCase_Register_SecretOnOtherDomainIsUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "bob@other.com").Return(nil, persistent.ErrNotFound)
	f.hasher.On("Hash", "pw2").Return("hashed", nil)
	f.users.On("Create", ctx, mock.Anything).Return(nil)
	f.profiles.On("CreateProfile", ctx, int64(42), "Bob", "bob@other.com", "USER").Return(nil)
	f.notifier.On("Dispatch", int64(42), notify.KindWelcome, mock.Anything, mock.Anything).Return()

	result, err := f.uc.Register(ctx, RegisterInput{
		Name:     "Bob",
		Email:    "bob@other.com",
		Password: "pw2",
		AdminKey: strPtr(testSecret),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, result.User.Role)
	f.profiles.AssertNumberOfCalls(t, "CreateProfile", 1)
}
