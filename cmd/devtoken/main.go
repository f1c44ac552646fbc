// Command devtoken mints a bearer token for local development.
//
//	go run ./cmd/devtoken -user driver-1 -role driver
package main

import (
	"flag"
	"fmt"
	"os"

	"unigo/internal/auth"
	"unigo/internal/config"
)

func main() {
	userID := flag.String("user", "", "user id to embed in the token")
	role := flag.String("role", auth.RolePassenger, "passenger, driver or admin")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to JWT_EXPIRY")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}

	expiry := cfg.Auth.TokenExpiry
	if *ttl > 0 {
		expiry = *ttl
	}

	token, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, expiry).GenerateToken(*userID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
