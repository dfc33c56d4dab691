package backend

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Auth é a superfície de autenticação usada pelo contexto de sessão.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignOut(ctx context.Context, s *Session) error
	Current(ctx context.Context, token string) (*Session, error)
	Refresh(ctx context.Context, s *Session) (*Session, error)
}

type SignUpInput struct {
	Email       string
	Password    string
	Nome        string
	Telefone    *string
	TipoUsuario string
}

// ErrRoleNotAllowed é devolvido quando o auto-cadastro como admin está desligado.
var ErrRoleNotAllowed = stderrors.New("role_not_allowed")

type JWTAuthOptions struct {
	Secret           string
	TTL              time.Duration
	AllowAdminSignup bool
	Now              func() time.Time
}

// JWTAuth emite tokens HS256 assinados e guarda usuários via gorm.
type JWTAuth struct {
	db      *gorm.DB
	opts    JWTAuthOptions
	revoked Revocations
	bus     EventBus
	logger  *slog.Logger
}

func NewJWTAuth(db *gorm.DB, revoked Revocations, bus EventBus, logger *slog.Logger, opts JWTAuthOptions) *JWTAuth {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &JWTAuth{db: db, opts: opts, revoked: revoked, bus: bus, logger: logger}
}

type claims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`
	IssuedAtMs int64  `json:"iat_ms"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// =====================================================
// SIGN IN / SIGN UP
// =====================================================

func (a *JWTAuth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	err := a.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate(err, "sign in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	var profile models.Profile
	if err := a.db.WithContext(ctx).First(&profile, "id = ?", user.ID).Error; err != nil {
		return nil, translate(err, "load profile")
	}

	s, err := a.issue(ctx, user.ID, profile.TipoUsuario)
	if err != nil {
		return nil, err
	}

	a.bus.Publish(ctx, AuthEvent{Type: EventSignedIn, UserID: user.ID, Session: s, At: a.opts.Now()})
	return s, nil
}

func (a *JWTAuth) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	if !models.ValidRole(in.TipoUsuario) {
		return nil, errors.Wrapf(ErrConstraint, "tipo_usuario %q", in.TipoUsuario)
	}
	if in.TipoUsuario == models.RoleAdmin {
		if !a.opts.AllowAdminSignup {
			return nil, ErrRoleNotAllowed
		}
		a.logger.Warn("admin self sign-up", slog.String("email", normalizeEmail(in.Email)))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	email := normalizeEmail(in.Email)
	user := models.User{Email: email, PasswordHash: string(hashed)}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.Profile{
			ID:          user.ID,
			Nome:        strings.TrimSpace(in.Nome),
			Email:       email,
			Telefone:    in.Telefone,
			TipoUsuario: in.TipoUsuario,
		}
		return tx.Create(&profile).Error
	})
	if stderrors.Is(err, ErrEmailTaken) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, translate(err, "sign up")
	}

	s, err := a.issue(ctx, user.ID, in.TipoUsuario)
	if err != nil {
		return nil, err
	}

	a.bus.Publish(ctx, AuthEvent{Type: EventSignedIn, UserID: user.ID, Session: s, At: a.opts.Now()})
	return s, nil
}

// =====================================================
// SIGN OUT / CURRENT / REFRESH
// =====================================================

// SignOut revoga todos os tokens do usuário emitidos até agora.
func (a *JWTAuth) SignOut(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}

	now := a.opts.Now()
	if err := a.revoked.RevokeUser(ctx, s.UserID, now, a.opts.TTL); err != nil {
		return err
	}

	a.bus.Publish(ctx, AuthEvent{Type: EventSignedOut, UserID: s.UserID, PreviousTokenID: s.TokenID, At: now})
	return nil
}

func (a *JWTAuth) Current(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.opts.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.opts.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrSessionExpired
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrSessionExpired
	}
	tokenID, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, ErrSessionExpired
	}

	revokedAt, err := a.revoked.RevokedAt(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !revokedAt.IsZero() && c.IssuedAtMs <= revokedAt.UnixMilli() {
		return nil, ErrSessionExpired
	}

	return &Session{
		AccessToken: token,
		TokenID:     tokenID,
		UserID:      userID,
		Role:        c.Role,
		IssuedAt:    time.UnixMilli(c.IssuedAtMs),
		ExpiresAt:   c.ExpiresAt.Time,
	}, nil
}

func (a *JWTAuth) Refresh(ctx context.Context, s *Session) (*Session, error) {
	if s == nil {
		return nil, ErrSessionExpired
	}

	current, err := a.Current(ctx, s.AccessToken)
	if err != nil {
		return nil, err
	}

	next, err := a.issue(ctx, current.UserID, current.Role)
	if err != nil {
		return nil, err
	}

	a.bus.Publish(ctx, AuthEvent{
		Type:            EventTokenRefreshed,
		UserID:          next.UserID,
		PreviousTokenID: current.TokenID,
		Session:         next,
		At:              a.opts.Now(),
	})
	return next, nil
}

// =====================================================
// JWT
// =====================================================

// issue assina um token novo. O iat fica sempre depois da última
// revogação do usuário, mesmo no mesmo milissegundo do sign-out.
func (a *JWTAuth) issue(ctx context.Context, userID uuid.UUID, role string) (*Session, error) {
	now := a.opts.Now()
	exp := now.Add(a.opts.TTL)
	tokenID := uuid.New()

	revokedAt, err := a.revoked.RevokedAt(ctx, userID)
	if err != nil {
		return nil, err
	}
	issuedMs := now.UnixMilli()
	if !revokedAt.IsZero() && issuedMs <= revokedAt.UnixMilli() {
		issuedMs = revokedAt.UnixMilli() + 1
	}

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role:       role,
		IssuedAtMs: issuedMs,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(a.opts.Secret))
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}

	return &Session{
		AccessToken: signed,
		TokenID:     tokenID,
		UserID:      userID,
		Role:        role,
		IssuedAt:    time.UnixMilli(issuedMs),
		ExpiresAt:   exp.Truncate(time.Second),
	}, nil
}
