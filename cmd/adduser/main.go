package main

import (
	"bufio"                    // Non-terminal password input
	"context"                  // Account creation
	"flag"                     // Command line flags
	"fmt"                      // Output
	"io"                       // Injected streams
	"ledgerly/internal/config" // Custom package for configuration
	"ledgerly/internal/db"     // Custom package for database access
	"ledgerly/internal/domain" // Importing domain models
	"os"                       // Process streams
	"strings"                  // Input cleanup

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"golang.org/x/term"          // Hidden password prompt
)

const minPasswordLength = 6

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "Email address (login)")
	name := fs.String("name", "", "Display name (defaults to the part of the email before @)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	driver := fs.String("driver", cfg.DBDriver, "Database driver: mysql, postgres or sqlite")
	dsn := fs.String("dsn", cfg.DBURL, "Database connection string (defaults to the DB_* settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr := strings.ToLower(strings.TrimSpace(*email))
	local, host, found := strings.Cut(addr, "@")
	if !found || local == "" || host == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> [-name <name>] [-password <password>] [-driver <driver>] [-dsn <dsn>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing or invalid required flag: email")
	}
	displayName := strings.TrimSpace(*name)
	if displayName == "" {
		displayName = local
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	cfg.DBDriver = strings.ToLower(*driver)
	cfg.DBURL = *dsn
	logrus.SetOutput(stderr) // Keep stdout for the result

	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to close database")
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := domain.User{Name: displayName, Email: addr, Password: string(hash)}
	if err := db.CreateAccount(context.Background(), gdb, &user); err != nil {
		if db.IsDuplicateKey(err) {
			return fmt.Errorf("user %s already exists", addr)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
