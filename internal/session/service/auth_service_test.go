package service_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/narwhalmedia/reelscout/internal/session/repository"
	"github.com/narwhalmedia/reelscout/internal/session/service"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/auth"
	"github.com/narwhalmedia/reelscout/pkg/encryption"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/logger"
	"github.com/narwhalmedia/reelscout/pkg/models"
	"github.com/narwhalmedia/reelscout/test/testutil"
)

// MockAuthenticator is a mock for the TMDB authentication API
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) CreateRequestToken(ctx context.Context) (*models.RequestToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestToken), args.Error(1)
}

func (m *MockAuthenticator) ValidateWithLogin(ctx context.Context, username, password, requestToken string) (*models.RequestToken, error) {
	args := m.Called(ctx, username, password, requestToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestToken), args.Error(1)
}

func (m *MockAuthenticator) CreateSession(ctx context.Context, requestToken string) (*models.SessionResponse, error) {
	args := m.Called(ctx, requestToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionResponse), args.Error(1)
}

func (m *MockAuthenticator) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthenticator) Account(ctx context.Context, sessionID string) (*models.Profile, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type recordingHandler struct {
	mu     sync.Mutex
	events []interfaces.Event
}

func (h *recordingHandler) Handle(_ context.Context, event interfaces.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHandler) EventType() string { return "recorder" }

func (h *recordingHandler) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.EventType())
	}
	return out
}

type AuthServiceTestSuite struct {
	suite.Suite

	ctx        context.Context
	db         *gorm.DB
	tmdb       *MockAuthenticator
	repo       repository.Repository
	jwtManager *auth.JWTManager
	eventBus   *events.InMemoryEventBus
	recorder   *recordingHandler
	service    *service.AuthService
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) SetupSuite() {
	suite.db = testutil.NewTestDB(suite.T())
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	testutil.TruncateTables(suite.T(), suite.db, "sessions")

	encryptor, err := encryption.NewEncryptor("test-encryption-key")
	suite.Require().NoError(err)

	suite.tmdb = new(MockAuthenticator)
	suite.repo = repository.NewGormRepository(suite.db, encryptor)
	suite.jwtManager = auth.NewJWTManager("test-secret", "reelscout-test", time.Hour)
	suite.eventBus = events.NewInMemoryEventBus(logger.NewNoopLogger())
	suite.recorder = &recordingHandler{}
	suite.Require().NoError(suite.eventBus.Subscribe(events.AllEvents, suite.recorder))

	suite.service = service.NewAuthService(suite.tmdb, suite.repo, suite.jwtManager, suite.eventBus, logger.NewNoopLogger())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.tmdb.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) expectHandshake(username, password string) {
	suite.tmdb.On("CreateRequestToken", mock.Anything).
		Return(&models.RequestToken{Success: true, RequestToken: "req-token"}, nil).Once()
	suite.tmdb.On("ValidateWithLogin", mock.Anything, username, password, "req-token").
		Return(&models.RequestToken{Success: true, RequestToken: "req-token"}, nil).Once()
	suite.tmdb.On("CreateSession", mock.Anything, "req-token").
		Return(&models.SessionResponse{Success: true, SessionID: "tmdb-session"}, nil).Once()
}

func (suite *AuthServiceTestSuite) login() uuid.UUID {
	suite.expectHandshake("rick", "pickle")
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(testutil.CreateTestProfile("rick", 42), nil).Once()

	result, err := suite.service.Login(suite.ctx, "rick", "pickle")
	suite.Require().NoError(err)

	claims, err := suite.jwtManager.Validate(result.AccessToken)
	suite.Require().NoError(err)
	return claims.SessionUUID()
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	// Arrange
	suite.expectHandshake("rick", "pickle")
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(testutil.CreateTestProfile("rick", 42), nil).Once()

	// Act
	result, err := suite.service.Login(suite.ctx, "  rick ", "pickle")

	// Assert
	suite.Require().NoError(err)
	suite.Equal(auth.TokenTypeBearer, result.TokenType)
	suite.Equal(42, result.Profile.ID)

	claims, err := suite.jwtManager.Validate(result.AccessToken)
	suite.Require().NoError(err)
	suite.Equal("rick", claims.Username)
	suite.Equal(42, claims.AccountID)

	stored, err := suite.repo.GetSession(suite.ctx, claims.SessionUUID())
	suite.Require().NoError(err)
	suite.Equal("tmdb-session", stored.TMDBSessionID)

	suite.Require().NoError(suite.eventBus.Stop())
	suite.Equal([]string{events.SessionCreated}, suite.recorder.types())
}

func (suite *AuthServiceTestSuite) TestLogin_BlankCredentials() {
	_, err := suite.service.Login(suite.ctx, "   ", "pickle")
	suite.True(errors.IsBadRequest(err))

	_, err = suite.service.Login(suite.ctx, "rick", "")
	suite.True(errors.IsBadRequest(err))
}

func (suite *AuthServiceTestSuite) TestLogin_InvalidCredentials() {
	// Arrange
	suite.tmdb.On("CreateRequestToken", mock.Anything).
		Return(&models.RequestToken{Success: true, RequestToken: "req-token"}, nil).Once()
	suite.tmdb.On("ValidateWithLogin", mock.Anything, "rick", "wrong", "req-token").
		Return(nil, &tmdb.APIError{StatusCode: http.StatusUnauthorized, StatusMessage: "Invalid username and/or password: You did not provide a valid login.", Code: 30}).Once()

	// Act
	_, err := suite.service.Login(suite.ctx, "rick", "wrong")

	// Assert
	suite.Require().Error(err)
	suite.True(errors.IsUnauthorized(err))
	suite.Equal("Invalid username or password", errors.Display(err))
}

func (suite *AuthServiceTestSuite) TestLogin_UpstreamFailure() {
	// Arrange
	suite.tmdb.On("CreateRequestToken", mock.Anything).
		Return(nil, stderrors.New("connection refused")).Once()

	// Act
	_, err := suite.service.Login(suite.ctx, "rick", "pickle")

	// Assert
	suite.True(errors.IsUpstream(err))
	suite.Equal("Login failed: connection refused", errors.Display(err))
}

func (suite *AuthServiceTestSuite) TestLogin_NoSessionCreated() {
	// Arrange
	suite.tmdb.On("CreateRequestToken", mock.Anything).
		Return(&models.RequestToken{Success: true, RequestToken: "req-token"}, nil).Once()
	suite.tmdb.On("ValidateWithLogin", mock.Anything, "rick", "pickle", "req-token").
		Return(&models.RequestToken{Success: true}, nil).Once()
	suite.tmdb.On("CreateSession", mock.Anything, "req-token").
		Return(&models.SessionResponse{Success: false}, nil).Once()

	// Act
	_, err := suite.service.Login(suite.ctx, "rick", "pickle")

	// Assert
	suite.True(errors.IsUpstream(err))
	suite.Contains(errors.Display(err), "Login failed")
}

func (suite *AuthServiceTestSuite) TestRestore() {
	// Arrange
	id := suite.login()
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(testutil.CreateTestProfile("rick", 42), nil).Once()

	// Act
	current, err := suite.service.Restore(suite.ctx, id)

	// Assert
	suite.Require().NoError(err)
	suite.Equal("rick", current.Username)
	suite.Equal(id, current.Session.ID)
	suite.Equal(42, current.Profile.ID)
}

func (suite *AuthServiceTestSuite) TestRestore_NotFound() {
	_, err := suite.service.Restore(suite.ctx, uuid.New())

	suite.True(errors.IsNotFound(err))
}

func (suite *AuthServiceTestSuite) TestRestore_ExpiredSessionIsDeleted() {
	// Arrange
	id := suite.login()
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(nil, &tmdb.APIError{StatusCode: http.StatusUnauthorized, StatusMessage: "Authentication failed"}).Once()

	// Act
	_, err := suite.service.Restore(suite.ctx, id)

	// Assert
	suite.True(errors.IsUnauthorized(err))
	_, err = suite.repo.GetSession(suite.ctx, id)
	suite.True(errors.IsNotFound(err))
}

func (suite *AuthServiceTestSuite) TestRestore_UpstreamFailureKeepsSession() {
	// Arrange
	id := suite.login()
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(nil, &tmdb.APIError{StatusCode: http.StatusServiceUnavailable}).Once()

	// Act
	_, err := suite.service.Restore(suite.ctx, id)

	// Assert
	suite.True(errors.IsUpstream(err))
	_, err = suite.repo.GetSession(suite.ctx, id)
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestCurrent() {
	// Arrange
	id := suite.login()
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(testutil.CreateTestProfile("rick", 42), nil).Once()

	// Act
	current, err := suite.service.Current(suite.ctx)

	// Assert
	suite.Require().NoError(err)
	suite.Equal(id, current.Session.ID)
}

func (suite *AuthServiceTestSuite) TestCurrent_NotLoggedIn() {
	_, err := suite.service.Current(suite.ctx)

	suite.True(errors.IsUnauthorized(err))
	suite.Equal("Not logged in", errors.Display(err))
}

func (suite *AuthServiceTestSuite) TestAuthenticate() {
	// Arrange
	suite.expectHandshake("rick", "pickle")
	suite.tmdb.On("Account", mock.Anything, "tmdb-session").
		Return(testutil.CreateTestProfile("rick", 42), nil).Once()
	result, err := suite.service.Login(suite.ctx, "rick", "pickle")
	suite.Require().NoError(err)

	// Act
	session, err := suite.service.Authenticate(suite.ctx, result.AccessToken)

	// Assert
	suite.Require().NoError(err)
	suite.Equal("tmdb-session", session.TMDBSessionID)
	suite.Equal(42, session.AccountID)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_InvalidToken() {
	_, err := suite.service.Authenticate(suite.ctx, "not-a-jwt")

	suite.True(errors.IsUnauthorized(err))
}

func (suite *AuthServiceTestSuite) TestAuthenticate_LoggedOutSession() {
	// Arrange
	token, err := suite.jwtManager.Issue(uuid.New(), "rick", 42)
	suite.Require().NoError(err)

	// Act
	_, err = suite.service.Authenticate(suite.ctx, token.AccessToken)

	// Assert
	suite.True(errors.IsUnauthorized(err))
}

func (suite *AuthServiceTestSuite) TestLogout() {
	// Arrange
	id := suite.login()
	suite.tmdb.On("DeleteSession", mock.Anything, "tmdb-session").Return(nil).Once()

	// Act
	err := suite.service.Logout(suite.ctx, id)

	// Assert
	suite.Require().NoError(err)
	_, err = suite.repo.GetSession(suite.ctx, id)
	suite.True(errors.IsNotFound(err))

	suite.Require().NoError(suite.eventBus.Stop())
	suite.ElementsMatch([]string{events.SessionCreated, events.SessionEnded}, suite.recorder.types())
}

func (suite *AuthServiceTestSuite) TestLogout_RevokeFailureStillDeletesLocally() {
	// Arrange
	id := suite.login()
	suite.tmdb.On("DeleteSession", mock.Anything, "tmdb-session").
		Return(stderrors.New("timeout")).Once()

	// Act
	err := suite.service.Logout(suite.ctx, id)

	// Assert
	suite.Require().NoError(err)
	_, err = suite.repo.GetSession(suite.ctx, id)
	suite.True(errors.IsNotFound(err))
}
