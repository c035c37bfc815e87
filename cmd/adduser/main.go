// Command adduser creates a user account from the command line. It goes
// through the same service path as the HTTP API, so the password is hashed
// before it ever reaches the database. The password is read from the
// terminal without echo.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/mkalinin/userkeeper/internal/server/config"
	"github.com/mkalinin/userkeeper/internal/server/repositories/repomanager"
	"github.com/mkalinin/userkeeper/internal/server/services"
)

func main() {
	username := flag.String("username", "", "username of the new account")
	email := flag.String("email", "", "email address of the new account")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	fmt.Fprint(os.Stdout, "Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	svc := services.NewUserService(db, rm, cfg)

	user, err := svc.Register(ctx, *username, string(password), *email)
	if err != nil {
		log.Fatalf("error creating user: %v", err)
	}

	fmt.Printf("created user %q (id=%d)\n", user.Username, user.ID)
}
