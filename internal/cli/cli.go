// Package cli implements the watchlist management subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/term"
	"gorm.io/gorm"

	"watchlist/internal/app/di"
	"watchlist/internal/config"
	movieadapters "watchlist/internal/feature/movie/adapters"
	movieusecase "watchlist/internal/feature/movie/usecase"
	"watchlist/internal/platform/db"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// forgeOwnerName is the owner name used by forge.
const forgeOwnerName = "Murphian Xiao"

// forgeMovies is the sample data inserted by forge.
var forgeMovies = []struct{ Title, Year string }{
	{"My Neighbor Totoro", "1988"},
	{"Dead Poets Society", "1989"},
	{"A Perfect World", "1993"},
	{"Leon", "1994"},
	{"Mahjong", "1996"},
	{"Swallowtail Butterfly", "1996"},
	{"King of Comedy", "1999"},
	{"Devils on the Doorstep", "1999"},
	{"WALL-E", "2008"},
	{"The Pork of Music", "2012"},
}

// App runs subcommands against an open database. Redis is optional and only
// used so that writes invalidate the movie cache shared with the server.
type App struct {
	Config config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	In  io.Reader
	Out io.Writer
}

// Run dispatches args[0] to the matching subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		a.usage()
		return errors.New("missing subcommand")
	}
	switch args[0] {
	case "initdb":
		return a.InitDB(ctx, args[1:])
	case "forge":
		return a.Forge(ctx, args[1:])
	case "admin":
		return a.Admin(ctx, args[1:])
	case "-h", "--help", "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.Out, "watchlist <initdb|forge|admin> [flags]")
}

// InitDB creates the tables, dropping them first with --drop.
func (a *App) InitDB(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("initdb", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	drop := fs.Bool("drop", false, "create after drop")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *drop {
		if err := db.DropAll(a.DB.WithContext(ctx)); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "Drop data...\ndone.")
	}
	if err := db.Migrate(a.DB.WithContext(ctx)); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Initialized database.")
	return nil
}

// Forge fills the database with an owner name and ten sample movies.
func (a *App) Forge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forge", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := db.Migrate(a.DB.WithContext(ctx)); err != nil {
		return err
	}

	// The seed commits once; the movie cache is dropped only after the commit.
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := di.NewAuthUsecase(a.Config, tx, nil).SeedOwner(ctx, forgeOwnerName); err != nil {
			return err
		}
		movies := movieusecase.NewMovieUsecase(movieadapters.NewMovieGorm(tx))
		for _, m := range forgeMovies {
			if _, err := movies.Create(ctx, m.Title, m.Year); err != nil {
				return fmt.Errorf("failed to create %q: %w", m.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	di.NewMovieRepository(a.DB, a.Redis, a.Config.CacheTTL).Invalidate(ctx)
	fmt.Fprintln(a.Out, "Made data.")
	return nil
}

// Admin creates the owner or updates its credentials.
// Missing values are read interactively.
func (a *App) Admin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	userName := fs.String("username", "", "the username used to login")
	password := fs.String("password", "", "the password used to login")
	name := fs.String("name", "", "name shown in the page header")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := db.Migrate(a.DB.WithContext(ctx)); err != nil {
		return err
	}

	in := bufio.NewReader(a.In)
	if *userName == "" {
		fmt.Fprint(a.Out, "Username: ")
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("failed to read username: %w", err)
		}
		*userName = strings.TrimSpace(line)
	}
	if *password == "" {
		p, err := a.promptPassword()
		if err != nil {
			return err
		}
		*password = p
	}

	created, err := di.NewAuthUsecase(a.Config, a.DB, a.Redis).SetupOwner(ctx, *userName, *password, *name)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintln(a.Out, "Creating administrator...")
	}
	fmt.Fprintln(a.Out, "Done.")
	return nil
}

// promptPassword reads the password twice without echo.
func (a *App) promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())

	fmt.Fprint(a.Out, "Password: ")
	p1, err := readPassword(fd)
	fmt.Fprintln(a.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(a.Out, "Repeat for confirmation: ")
	p2, err := readPassword(fd)
	fmt.Fprintln(a.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(p1) == 0 {
		return "", errors.New("password cannot be empty")
	}
	if string(p1) != string(p2) {
		return "", errors.New("passwords do not match")
	}
	return string(p1), nil
}
