package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetclinic/vetclinic/internal/domain/accounts"
	"github.com/vetclinic/vetclinic/internal/domain/owners"
	"github.com/vetclinic/vetclinic/internal/domain/patients"
	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/pkg/clinicerr"
)

const seedPassword = "password123"

type seedUser struct {
	email     string
	firstName string
	lastName  string
	role      string
}

var seedUsers = []seedUser{
	{"admin@vetclinic.local", "Ada", "Moreno", accounts.RoleAdministrator},
	{"vet@vetclinic.local", "Lucas", "Ferreyra", accounts.RoleVeterinarian},
	{"reception@vetclinic.local", "Carla", "Ruiz", accounts.RoleReceptionist},
	{"client@vetclinic.local", "Marta", "Gomez", accounts.RoleClient},
}

// seed inserts one demo account per role, a sample owner linked to the
// client account, and a sample patient. Existing records are left alone.
func seed(ctx context.Context, pool *pgxpool.Pool) error {
	userRepo := accounts.NewUserRepoPG(pool)
	ownerRepo := owners.NewRepoPG(pool)
	patientRepo := patients.NewRepoPG(pool)

	users := make(map[string]*accounts.User, len(seedUsers))
	for _, su := range seedUsers {
		existing, err := userRepo.GetByEmail(ctx, su.email)
		if err == nil {
			fmt.Printf("user %s already exists, skipping\n", su.email)
			users[su.role] = existing
			continue
		}
		if !clinicerr.IsKind(err, clinicerr.KindNotFound) {
			return err
		}

		hash, err := auth.HashPassword(seedPassword)
		if err != nil {
			return err
		}
		u := &accounts.User{
			Email:        su.email,
			PasswordHash: hash,
			FirstName:    su.firstName,
			LastName:     su.lastName,
			Role:         su.role,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", su.email, err)
		}
		users[su.role] = u
		fmt.Printf("created %s (%s)\n", su.email, su.role)
	}

	client := users[accounts.RoleClient]
	exists, err := ownerRepo.EmailExists(ctx, client.Email)
	if err != nil {
		return err
	}
	if exists {
		fmt.Println("sample owner already exists, skipping")
		return nil
	}

	owner := &owners.Owner{
		UserID:    &client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Email:     client.Email,
		Phone:     "555-0134",
		Address:   "742 Mirador St",
	}
	if err := ownerRepo.Create(ctx, owner); err != nil {
		return fmt.Errorf("create owner: %w", err)
	}
	fmt.Printf("created owner %s\n", owner.Email)

	patient := &patients.Patient{
		Name:      "Rex",
		Species:   patients.SpeciesDog,
		Breed:     "Beagle",
		BirthDate: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		Weight:    12.5,
		Sex:       patients.SexMale,
		OwnerID:   owner.ID,
	}
	if err := patientRepo.Create(ctx, patient); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	fmt.Printf("created patient %s\n", patient.Name)
	return nil
}
