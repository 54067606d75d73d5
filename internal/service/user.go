package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/email"
	"github.com/davilabs/rapida/internal/lifecycle"
	"github.com/davilabs/rapida/internal/observability/logger"
	tokens "github.com/davilabs/rapida/internal/security/token"
)

// UserDeps contiene las dependencias del servicio de cuentas.
type UserDeps struct {
	Users    repository.UserRepository
	Cascader *lifecycle.Cascader
	Reaper   *lifecycle.Reaper
	Notifier *email.Notifier      // nil = sin correos
	Verifier *tokens.VerifyIssuer // nil = sin verificación de email
}

// UserService maneja cuentas y su ciclo de vida de borrado.
type UserService struct {
	deps UserDeps
}

// NewUserService crea el servicio de cuentas.
func NewUserService(deps UserDeps) *UserService {
	return &UserService{deps: deps}
}

// Register crea una cuenta nueva. La unicidad del email se valida por
// lookup previo, no por constraint del motor: el comportamiento es igual en
// todos los drivers.
func (s *UserService) Register(ctx context.Context, emailAddr, password string) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user"),
		logger.Op("Register"),
	)

	emailAddr = strings.TrimSpace(strings.ToLower(emailAddr))
	if emailAddr == "" || password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.deps.Users.FindByEmail(ctx, emailAddr); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		Email:        emailAddr,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	if s.deps.Verifier != nil && s.deps.Notifier != nil {
		token, err := s.deps.Verifier.Issue(user.ID, user.Email)
		if err != nil {
			log.Warn("issue verification token failed", logger.Err(err))
		} else if err := s.deps.Notifier.SendVerification(user.Email, token); err != nil {
			log.Warn("verification email not sent", logger.Err(err))
		}
	}

	log.Info("user registered", logger.UserID(user.ID))
	return user, nil
}

// Verify marca la cuenta como verificada a partir del token enviado por
// correo en el registro. Verificar una cuenta ya verificada es un no-op
// exitoso.
func (s *UserService) Verify(ctx context.Context, token string) (*repository.User, error) {
	if s.deps.Verifier == nil {
		return nil, ErrInvalidToken
	}
	claims, err := s.deps.Verifier.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.deps.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Verified {
		return user, nil
	}

	verified := true
	user, err = s.deps.Users.Update(ctx, claims.UserID, repository.UpdateUserInput{Verified: &verified})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("account verified",
		logger.Layer("service"),
		logger.Component("user"),
		logger.UserID(user.ID),
	)
	return user, nil
}

// Get busca una cuenta por ID.
func (s *UserService) Get(ctx context.Context, id string) (*repository.User, error) {
	return s.deps.Users.FindByID(ctx, id)
}

// Authenticate verifica las credenciales. Una cuenta borrada lógicamente o
// sin verificar no puede autenticarse.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (*repository.User, error) {
	emailAddr = strings.TrimSpace(strings.ToLower(emailAddr))
	user, err := s.deps.Users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if user.Deleted() {
		return nil, ErrAccountDeleted
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, repository.ErrNotFound
	}
	if !user.Verified {
		return nil, ErrNotVerified
	}
	return user, nil
}

// Update aplica un merge parcial sobre la cuenta. El password llega plano y
// se hashea acá.
func (s *UserService) Update(ctx context.Context, id string, emailAddr, password *string) (*repository.User, error) {
	input := repository.UpdateUserInput{}
	if emailAddr != nil {
		normalized := strings.TrimSpace(strings.ToLower(*emailAddr))
		if other, err := s.deps.Users.FindByEmail(ctx, normalized); err == nil && other.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		input.Email = &normalized
	}
	if password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		input.PasswordHash = &hashed
	}
	return s.deps.Users.Update(ctx, id, input)
}

// SoftDelete borra lógicamente la cuenta, propaga la cascada sobre todo lo
// creado por el usuario y agenda el borrado físico diferido. La cascada es
// best-effort: un fallo parcial se loguea y no revierte lo ya borrado.
func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user"),
		logger.Op("SoftDelete"),
		logger.UserID(id),
	)

	user, err := s.deps.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Deleted() {
		// Idempotente: re-borrar no re-dispara la cascada.
		return nil
	}

	now := time.Now().UTC()
	if err := s.deps.Users.SetDeletedAt(ctx, id, &now); err != nil {
		return err
	}

	outcomes := s.deps.Cascader.SoftDelete(ctx, id, now)
	if lifecycle.Failed(outcomes) {
		log.Warn("soft delete cascade incomplete")
	}

	if err := s.deps.Reaper.Schedule(ctx, id, now); err != nil {
		// La cuenta ya quedó borrada; el barrido durable no la va a
		// recoger hasta que el agendado se repare.
		log.Error("schedule deferred hard delete failed", logger.Err(err))
		return err
	}

	if s.deps.Notifier != nil {
		dueAt := now.Add(s.deps.Reaper.GracePeriod())
		if err := s.deps.Notifier.SendDeletionScheduled(user.Email, dueAt); err != nil {
			log.Warn("deletion notice not sent", logger.Err(err))
		}
	}

	log.Info("account soft deleted")
	return nil
}

// Restore limpia la marca de borrado de la cuenta, restaura la cascada y
// cancela el borrado físico agendado. Restaurar una cuenta activa es un
// no-op exitoso.
func (s *UserService) Restore(ctx context.Context, id string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user"),
		logger.Op("Restore"),
		logger.UserID(id),
	)

	user, err := s.deps.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.Deleted() {
		return nil
	}

	if err := s.deps.Users.SetDeletedAt(ctx, id, nil); err != nil {
		return err
	}

	outcomes := s.deps.Cascader.Restore(ctx, id)
	if lifecycle.Failed(outcomes) {
		log.Warn("restore cascade incomplete")
	}

	if err := s.deps.Reaper.Cancel(ctx, id); err != nil {
		log.Error("cancel deferred hard delete failed", logger.Err(err))
		return err
	}

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.SendRestored(user.Email); err != nil {
			log.Warn("restore notice not sent", logger.Err(err))
		}
	}

	log.Info("account restored")
	return nil
}

// HardDelete elimina la cuenta y todo lo creado por ella inmediatamente,
// sin esperar la ventana de gracia. Irreversible.
func (s *UserService) HardDelete(ctx context.Context, id string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user"),
		logger.Op("HardDelete"),
		logger.UserID(id),
	)

	if _, err := s.deps.Users.FindByID(ctx, id); err != nil {
		return err
	}

	outcomes := s.deps.Cascader.HardDelete(ctx, id)
	if lifecycle.Failed(outcomes) {
		log.Warn("hard delete cascade incomplete")
	}
	if err := s.deps.Users.HardDelete(ctx, id); err != nil {
		return err
	}
	if err := s.deps.Reaper.Cancel(ctx, id); err != nil {
		log.Warn("clear deferred entry failed", logger.Err(err))
	}

	log.Info("account hard deleted")
	return nil
}
