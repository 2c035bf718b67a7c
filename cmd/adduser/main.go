// Command adduser registers a user directly against the database, bypassing
// the HTTP endpoint. Useful for seeding a fresh install.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/mpolonsky/userauth/internal/server/config"
	"github.com/mpolonsky/userauth/internal/server/passhash"
	"github.com/mpolonsky/userauth/internal/server/repositories/repomanager"
	"github.com/mpolonsky/userauth/internal/server/services"
)

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	dsn := flag.String("d", cfg.DatabaseDSN, "database DSN")
	displayID := flag.String("u", "", "display id of the new user")
	name := flag.String("n", "", "full name of the new user")
	flag.Parse()

	if *displayID == "" {
		log.Fatal("display id is required (-u)")
	}

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}
	if len(password) == 0 {
		log.Fatal("password must not be empty")
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	us := services.NewUserService(db, repos, passhash.NewBcrypt(cfg.BcryptCost))

	user, err := us.Register(ctx, *displayID, *name, string(password))
	if err != nil {
		log.Fatalf("error registering user: %v", err)
	}

	fmt.Printf("created user %s (%s)\n", user.DisplayID, user.ID)
}
