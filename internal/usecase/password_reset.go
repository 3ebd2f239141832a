package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oykulab/masal-api/internal/config"
	"github.com/oykulab/masal-api/internal/mailer"
	"github.com/oykulab/masal-api/internal/repository"
	"github.com/oykulab/masal-api/internal/security"
)

// PasswordResetUsecase defines the business logic for password recovery.
type PasswordResetUsecase interface {
	// RequestPasswordReset issues a reset token for the given email. It
	// succeeds whether or not the email is registered so that responses are
	// indistinguishable to a caller probing for accounts.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a raw reset token and replaces the password.
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// ErrInvalidOrExpiredToken covers both a wrong token and an expired one; the
// caller is never told which.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired password reset token")

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	sender   mailer.Sender
	logger   *zerolog.Logger
	cfg      *config.Config
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
// sender may be nil; outside production the raw token is then logged for
// debugging instead of being delivered.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	sender mailer.Sender,
	logger *zerolog.Logger,
	cfg *config.Config,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		sender:   sender,
		logger:   logger,
		cfg:      cfg,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// To prevent email enumeration, do not reveal that the email does
			// not exist.
			return nil
		}
		return err
	}

	rawToken, err := security.GenerateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.cfg.Token.PasswordResetTokenExpiresIn)

	// Overwrites any pending reset; the previous token becomes invalid.
	if err := u.userRepo.SetPasswordReset(ctx, user.ID.Hex(), security.HashResetToken(rawToken), expiresAt); err != nil {
		return err
	}

	if u.sender == nil {
		if !u.cfg.IsProduction() {
			u.logger.Debug().Str("reset_token", rawToken).Msg("password reset token issued without mail delivery")
		}
		return nil
	}

	resetLink := fmt.Sprintf("%s?token=%s", u.cfg.AppPasswordResetURL, rawToken)
	htmlBody := fmt.Sprintf(`
		<p>Merhaba,</p>
		<p>Hesabınız için bir şifre sıfırlama isteği aldık.</p>
		<p>Bu isteği siz yaptıysanız, yeni bir şifre oluşturmak için aşağıdaki bağlantıya tıklayın:</p>

		<p><a href="%s">%s</a></p>

		<p>Bu bağlantı güvenliğiniz için %s içinde geçerliliğini yitirecektir.</p>
		<p>Şifre sıfırlama isteğinde bulunmadıysanız bu e-postayı yok sayabilirsiniz.</p>
	`, resetLink, resetLink, u.cfg.Token.PasswordResetTokenExpiresIn)

	if err := u.sender.SendHTML([]string{user.Email}, "Şifre Sıfırlama İsteği", htmlBody); err != nil {
		return err
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Matching requires digest equality and an unexpired token; the update
	// clears both reset fields so the token cannot be used twice.
	_, err = u.userRepo.ConsumePasswordReset(ctx, security.HashResetToken(rawToken), passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	return nil
}
