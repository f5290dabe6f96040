package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/headspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/appointment"
)

type seedOptions struct {
	clients       int
	adminEmail    string
	adminPassword string
}

var demoFormulas = []models.Formula{
	{Title: "Rituel Découverte", Etiquette: "Nouveau", Price: 45, Duration: "45 min", Soins: []string{"Diagnostic du cuir chevelu", "Shampoing relaxant"}, IsActive: true},
	{Title: "Rituel Zen", Etiquette: "Populaire", Price: 75, Duration: "1h", Soins: []string{"Diagnostic", "Massage crânien", "Soin hydratant"}, IsActive: true},
	{Title: "Head Spa Signature", Etiquette: "Premium", Price: 120, Duration: "1h30", Soins: []string{"Diagnostic", "Exfoliation", "Massage crânien", "Masque", "Brushing"}, IsActive: true},
}

func newSeedCommand() *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logs.New(cfg)

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			return seed(cmd.Context(), db, timezone.NewClock(cfg.Timezone), logger, opts)
		},
	}

	cmd.Flags().IntVar(&opts.clients, "clients", 10, "Number of demo clients")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "admin@nanaheadspa.fr", "Admin login")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", "admin123", "Admin password")

	return cmd
}

func seed(ctx context.Context, db *gorm.DB, clock *timezone.Clock, logger *slog.Logger, opts seedOptions) error {
	gofakeit.Seed(0)

	// --------------------------------------------------
	// Admin
	// --------------------------------------------------
	admin, err := ensureUser(db, opts.adminEmail, opts.adminPassword, "Nana", "Admin", models.RoleAdmin)
	if err != nil {
		return err
	}
	logger.Info("admin ready", "email", admin.Email)

	// --------------------------------------------------
	// Formules
	// --------------------------------------------------
	formulas := make([]models.Formula, 0, len(demoFormulas))
	for _, f := range demoFormulas {
		if err := db.Where(models.Formula{Title: f.Title}).FirstOrCreate(&f).Error; err != nil {
			return fmt.Errorf("seed formula %q: %w", f.Title, err)
		}
		formulas = append(formulas, f)
	}
	logger.Info("formulas ready", "count", len(formulas))

	// --------------------------------------------------
	// Clientes + agendamentos
	// --------------------------------------------------
	create := ucAppointment.NewCreateAppointment(
		infraRepo.NewAppointmentGormRepository(db),
		lock.NewLocalDateLocker(5*time.Second),
		clock,
		nil,
		nil,
	)

	booked := 0
	for i := 0; i < opts.clients; i++ {
		first, last := gofakeit.FirstName(), gofakeit.LastName()
		email := strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, gofakeit.Number(100, 999)))

		client, err := ensureUser(db, email, "client123", first, last, models.RoleClient)
		if err != nil {
			return err
		}

		// um horário por cliente, espalhados pelos próximos dias
		day := 1 + i%7
		hour := 9 + (i/7)%8
		formula := formulas[gofakeit.Number(0, len(formulas)-1)]

		_, err = create.Execute(ctx, ucAppointment.CreateAppointmentInput{
			Actor:     domain.Actor{ID: client.ID, Role: models.RoleClient},
			FormulaID: formula.ID.String(),
			Date:      clock.DayOffset(day),
			StartTime: fmt.Sprintf("%02d:00", hour),
			EndTime:   fmt.Sprintf("%02d:00", hour+1),
		})
		if err != nil {
			if e, ok := httperr.As(err); ok && e.Kind == httperr.KindConflict {
				logger.Warn("slot already taken, skipping", "client", email)
				continue
			}
			return err
		}
		booked++
	}

	logger.Info("seed finished", "clients", opts.clients, "appointments", booked)
	return nil
}

func ensureUser(db *gorm.DB, email, password, first, last, role string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.User{
		FirstName:     first,
		LastName:      last,
		Email:         email,
		PasswordHash:  string(hashed),
		Phone:         gofakeit.Phone(),
		Role:          role,
		FidelityLevel: 1,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return &user, nil
}
