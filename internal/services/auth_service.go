package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// DefaultAdminUsername é o usuário criado quando o sistema não tem nenhum usuário
const DefaultAdminUsername = "admin"

// AuthService contém a lógica de cadastro, login e emissão de tokens
type AuthService struct {
	userRepo  repositories.UserRepository
	audit     *AuditService
	logger    ports.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	audit *AuditService,
	logger ports.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		audit:     audit,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RegisterInput representa os dados para cadastrar um usuário
type RegisterInput struct {
	Username string `json:"username" validate:"required,notblank,max=50"`
	Password string `json:"password" validate:"required,notblank"`
	Role     string `json:"role" validate:"required"`
}

// Register cadastra um novo usuário
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	role, ok := entities.ParseRole(input.Role)
	if !ok {
		return nil, errors.ErrInvalidRole
	}

	username := strings.TrimSpace(input.Username)
	s.logger.Info("registering user", "username", username, "role", role)

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, errors.ErrUsernameTaken
	} else if !stderrors.Is(err, errors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Success(ctx, Actor{Username: username, Role: role}, entities.OperationCreate, entities.EntityUser, user.ID,
		map[string]any{"username": username, "role": string(role)})
	return user, nil
}

// Login autentica usuário e senha
func (s *AuthService) Login(ctx context.Context, username, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			s.audit.Log(ctx, Actor{Username: username}, entities.OperationLogin, entities.EntityUser, nil,
				entities.AuditStatusError, map[string]any{"motivo": "usuario_inexistente"})
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.audit.Log(ctx, Actor{Username: username}, entities.OperationLogin, entities.EntityUser, idPtr(user.ID),
			entities.AuditStatusError, map[string]any{"motivo": "senha_incorreta"})
		return nil, errors.ErrInvalidCredentials
	}

	s.logger.Info("user logged in", "username", username)
	return user, nil
}

// EnsureDefaultAdmin cria o usuário admin quando não há nenhum usuário cadastrado.
// Retorna true quando o usuário foi criado.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, password string) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.Register(ctx, RegisterInput{
		Username: DefaultAdminUsername,
		Password: password,
		Role:     string(entities.RoleAdmin),
	}); err != nil {
		return false, err
	}

	s.logger.Warn("default admin user created", "username", DefaultAdminUsername)
	return true, nil
}

// Claims são as claims do token de acesso da API
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken emite um token HS256 para o usuário
func (s *AuthService) IssueToken(user *entities.User) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.ErrUnauthorized
	}

	now := s.now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// TokenTTL retorna a validade dos tokens emitidos
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// ParseToken valida o token e devolve o ator correspondente
func (s *AuthService) ParseToken(tokenString string) (Actor, error) {
	if len(s.jwtSecret) == 0 {
		return Actor{}, errors.ErrUnauthorized
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Actor{}, errors.ErrUnauthorized
	}

	role, ok := entities.ParseRole(claims.Role)
	if !ok {
		return Actor{}, errors.ErrUnauthorized
	}
	return Actor{Username: claims.Subject, SessionID: claims.ID, Role: role}, nil
}
