package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	apDomain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/validators"
)

const minPassword = 6

type CreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Phone     string
}

// UpdateInput: campos nil não mudam.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Role      *string
	Password  *string
}

type Service struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewService(repo domain.Repository, audit *audit.Dispatcher) *Service {
	return &Service{repo: repo, audit: audit}
}

// ==================================================
// 👀 Leituras
// ==================================================

func (s *Service) List(ctx context.Context, actor apDomain.Actor, role string) ([]models.User, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if role != "" && !domain.IsRole(role) {
		return nil, httperr.ErrValidation("invalid_role", "Rôle utilisateur invalide.")
	}

	users, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, mapError(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Admins é público para qualquer usuário logado: o chat mostra com quem se fala.
func (s *Service) Admins(ctx context.Context) ([]models.User, error) {
	admins, err := s.repo.Admins(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if admins == nil {
		admins = []models.User{}
	}
	return admins, nil
}

func (s *Service) Get(ctx context.Context, actor apDomain.Actor, id uuid.UUID) (*models.User, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, actor apDomain.Actor, email string) (*models.User, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// ==================================================
// ✍️ Escrita
// ==================================================

// Create é o cadastro feito pelo admin: todos os campos são obrigatórios.
func (s *Service) Create(ctx context.Context, actor apDomain.Actor, in CreateInput) (*models.User, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.Role == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, httperr.ErrValidation("missing_fields",
			"Tous les champs (prénom, nom, email, mot de passe, rôle, téléphone) sont requis.")
	}
	if _, ok := validators.EmailDomain(in.Email); !ok {
		return nil, httperr.ErrValidation("invalid_email", "Adresse e-mail invalide.").WithField("email", "formato inválido")
	}
	if !domain.IsRole(in.Role) {
		return nil, httperr.ErrValidation("invalid_role", "Rôle utilisateur invalide.").WithField("role", "client ou admin")
	}
	if len(in.Password) < minPassword {
		return nil, httperr.ErrValidation("password_too_short", "Le mot de passe doit contenir au moins 6 caractères.")
	}
	phone, err := validators.NormalizePhone(in.Phone)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_phone", "Numéro de téléphone invalide.").WithField("phone", "número inválido")
	}

	taken, err := s.repo.EmailTaken(ctx, in.Email, uuid.Nil)
	if err != nil {
		return nil, mapError(err)
	}
	if taken {
		return nil, emailConflict()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, httperr.ErrInternal("failed_to_hash_password", err)
	}

	u := &models.User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		PasswordHash:  string(hashed),
		Phone:         phone,
		Role:          in.Role,
		FidelityLevel: 1,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, emailConflict()
		}
		return nil, mapError(err)
	}

	s.dispatch(actor, "user_created", u.ID, map[string]any{"role": u.Role})
	return u, nil
}

// Update: o próprio usuário ou um admin. Só admin muda papel.
func (s *Service) Update(ctx context.Context, actor apDomain.Actor, id uuid.UUID, in UpdateInput) (*models.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, httperr.ErrForbidden("forbidden", "Vous ne pouvez modifier que votre propre profil.")
	}
	if in.Role != nil && !actor.IsAdmin() {
		return nil, httperr.ErrForbidden("role_change_forbidden", "Seul un administrateur peut changer un rôle.")
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return s.apply(ctx, actor, u, in)
}

// UpdateAdmin é a edição de uma conta admin pelo painel: o papel não muda.
func (s *Service) UpdateAdmin(ctx context.Context, actor apDomain.Actor, id uuid.UUID, in UpdateInput) (*models.User, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if u.Role != models.RoleAdmin {
		return nil, httperr.ErrForbidden("target_not_admin",
			`Vous ne pouvez modifier que les utilisateurs avec le rôle "admin".`)
	}
	if in.Role != nil && *in.Role != models.RoleAdmin {
		return nil, httperr.ErrValidation("admin_role_locked",
			"Le rôle d'un utilisateur admin ne peut pas être modifié via cette interface.")
	}
	in.Role = nil
	return s.apply(ctx, actor, u, in)
}

func (s *Service) apply(ctx context.Context, actor apDomain.Actor, u *models.User, in UpdateInput) (*models.User, error) {
	var changed []string

	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, httperr.ErrValidation("first_name_required", "Le prénom est requis.")
		}
		u.FirstName = v
		changed = append(changed, "first_name")
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return nil, httperr.ErrValidation("last_name_required", "Le nom est requis.")
		}
		u.LastName = v
		changed = append(changed, "last_name")
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, ok := validators.EmailDomain(v); !ok {
			return nil, httperr.ErrValidation("invalid_email", "Adresse e-mail invalide.").WithField("email", "formato inválido")
		}
		taken, err := s.repo.EmailTaken(ctx, v, u.ID)
		if err != nil {
			return nil, mapError(err)
		}
		if taken {
			return nil, emailConflict()
		}
		u.Email = v
		changed = append(changed, "email")
	}
	if in.Phone != nil {
		phone, err := validators.NormalizePhone(*in.Phone)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_phone", "Numéro de téléphone invalide.").WithField("phone", "número inválido")
		}
		u.Phone = phone
		changed = append(changed, "phone")
	}
	if in.Role != nil {
		if !domain.IsRole(*in.Role) {
			return nil, httperr.ErrValidation("invalid_role", "Rôle utilisateur invalide.").WithField("role", "client ou admin")
		}
		u.Role = *in.Role
		changed = append(changed, "role")
	}
	if in.Password != nil {
		if len(*in.Password) < minPassword {
			return nil, httperr.ErrValidation("password_too_short", "Le mot de passe doit contenir au moins 6 caractères.")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, httperr.ErrInternal("failed_to_hash_password", err)
		}
		u.PasswordHash = string(hashed)
		changed = append(changed, "password")
	}

	if len(changed) == 0 {
		return u, nil
	}
	if err := s.repo.Save(ctx, u); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, emailConflict()
		}
		return nil, mapError(err)
	}

	s.dispatch(actor, "user_updated", u.ID, map[string]any{"fields": changed})
	return u, nil
}

// Delete recusa apagar a si mesmo e clientes com histórico de agendamentos.
func (s *Service) Delete(ctx context.Context, actor apDomain.Actor, id uuid.UUID) error {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return httperr.ErrValidation("cannot_delete_self", "Vous ne pouvez pas supprimer votre propre compte.")
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return mapError(err)
	}
	has, err := s.repo.HasAppointments(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if has {
		return httperr.ErrConflict("user_has_appointments",
			"Impossible de supprimer un utilisateur qui possède des rendez-vous.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if httperr.IsForeignKeyViolation(err) {
			return httperr.ErrConflict("user_in_use", "Cet utilisateur est encore référencé (articles...).")
		}
		return mapError(err)
	}
	s.dispatch(actor, "user_deleted", id, nil)
	return nil
}

func (s *Service) dispatch(actor apDomain.Actor, action string, id uuid.UUID, meta any) {
	s.audit.Dispatch(audit.Event{
		ActorID:  &actor.ID,
		Action:   action,
		Entity:   "user",
		EntityID: &id,
		Metadata: meta,
	})
}

func emailConflict() error {
	return httperr.ErrConflict("email_already_exists", "Un utilisateur avec cet email existe déjà.")
}

func mapError(err error) error {
	if _, ok := httperr.As(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return httperr.ErrNotFound("user_not_found", "Utilisateur introuvable.")
	}
	return httperr.ErrInternal("user_store_failed", err)
}
