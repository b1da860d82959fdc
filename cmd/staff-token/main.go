package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"citizen-portal.backend/internal/config"
	"citizen-portal.backend/pkg/jwt"
)

type staffTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	newID   func() string
	out     io.Writer
}

func defaultStaffTokenDeps() staffTokenDeps {
	return staffTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		newID:   func() string { return uuid.NewString() },
		out:     os.Stdout,
	}
}

func parseRole(role string) (string, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !jwt.IsStaffRole(role) {
		return "", fmt.Errorf("--role must be %s or %s", jwt.RoleReviewer, jwt.RoleAdmin)
	}
	return role, nil
}

func runStaffToken(args []string, deps staffTokenDeps) error {
	def := defaultStaffTokenDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.newID == nil {
		deps.newID = def.newID
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("staff-token", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "staff member email (required)")
	roleFlag := fs.String("role", jwt.RoleReviewer, "REVIEWER or ADMIN")
	idFlag := fs.String("staff-id", "", "staff id (defaults to a new uuid)")
	expiryFlag := fs.Duration("expiry", 0, "token lifetime (defaults to STAFF_TOKEN_EXPIRY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	email := strings.TrimSpace(*emailFlag)
	if email == "" {
		return fmt.Errorf("--email is required")
	}
	role, err := parseRole(*roleFlag)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	if cfg.Staff.JWTSecret == "" {
		return fmt.Errorf("STAFF_JWT_SECRET is not set")
	}

	expiry := cfg.Staff.TokenExpiry
	if *expiryFlag > 0 {
		expiry = *expiryFlag
	}
	staffID := *idFlag
	if staffID == "" {
		staffID = deps.newID()
	}

	token, err := jwt.NewJWTService(cfg.Staff.JWTSecret, expiry, cfg.Staff.Issuer).GenerateToken(staffID, email, role)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "staff_id=%s\n", staffID)
	_, _ = fmt.Fprintf(deps.out, "role=%s\n", role)
	_, _ = fmt.Fprintf(deps.out, "expires_in=%s\n", expiry.Round(time.Second))
	_, _ = fmt.Fprintf(deps.out, "TOKEN=%s\n", token)
	return nil
}

func main() {
	if err := runStaffToken(os.Args[1:], defaultStaffTokenDeps()); err != nil {
		log.Fatal(err)
	}
}
