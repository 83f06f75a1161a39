// Command migrate applies the schema and seeds the default operator
// accounts. Passwords are bcrypt-hashed before insert; plaintext never
// reaches the store. Re-running is safe: existing users are left untouched.
package main

import (
	"context"
	"errors"
	"log"

	"rollcall/internal/apperr"
	"rollcall/internal/auth"
	"rollcall/internal/config"
	"rollcall/internal/store"
	"rollcall/internal/user"
)

type seedUser struct {
	username   string
	password   string
	role       string
	department string
}

// Default dev credentials; rotate before any real deployment.
var seedUsers = []seedUser{
	{"admin", "Admin@123", user.RoleAdmin, ""},
	{"cse", "CSE@123", user.RoleDepartment, "CSE"},
	{"ece", "ECE@123", user.RoleDepartment, "ECE"},
	{"it", "IT@123", user.RoleDepartment, "IT"},
	{"eee", "EEE@123", user.RoleDepartment, "EEE"},
	{"mech", "MECH@123", user.RoleDepartment, "MECH"},
	{"civil", "CIVIL@123", user.RoleDepartment, "CIVIL"},
	{"aids", "AI&DS@123", user.RoleDepartment, "AI&DS"},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema applied")

	users := user.NewRepository(db.Client)
	for _, s := range seedUsers {
		hash, err := auth.HashPassword(s.password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", s.username, err)
		}
		_, err = users.Create(ctx, user.User{
			Username:     s.username,
			PasswordHash: hash,
			Role:         s.role,
			Department:   s.department,
		})
		switch {
		case err == nil:
			log.Printf("user created: %s", s.username)
		case errors.Is(err, apperr.ErrConstraint):
			log.Printf("user already exists: %s", s.username)
		default:
			log.Fatalf("create user %s: %v", s.username, err)
		}
	}
	log.Println("migration completed")
}
