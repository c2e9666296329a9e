//go:build ignore

// This script generates secrets for API authentication: a JWT signing key, an
// API key with its bcrypt hash, and a sample bearer token signed with the new key.
// Run with: go run scripts/generate_keys.go [-subject ci] [-scopes layouts:read,layouts:write]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", what, err)
	os.Exit(1)
}

func main() {
	subject := flag.String("subject", "ci", "subject of the sample token")
	scopes := flag.String("scopes", dto.ScopeLayoutsRead+","+dto.ScopeLayoutsWrite, "comma-separated scopes of the sample token")
	issuer := flag.String("issuer", "placement-service", "token issuer, must match JWT_ISSUER")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the sample token")
	flag.Parse()

	fmt.Println("=== Placement Service Key Generator ===")
	fmt.Println()

	// Generate JWT Secret Key (32 bytes = 256 bits)
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fail("JWT secret", err)
	}

	// Generate API Key (24 bytes)
	apiKey, err := generateSecureKey(24)
	if err != nil {
		fail("API key", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		fail("API key hash", err)
	}

	tokens := service.NewTokenService(service.TokenConfig{
		SecretKey: jwtSecret,
		Issuer:    *issuer,
		TTL:       *ttl,
	})
	token, err := tokens.IssueToken(*subject, strings.Split(*scopes, ","))
	if err != nil {
		fail("sample token", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# JWT Configuration")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Printf("JWT_ISSUER=%s\n", *issuer)
	fmt.Println()
	fmt.Println("# API key hash (give the plain key to the client)")
	fmt.Printf("API_KEY_HASHES=%s\n", hash)
	fmt.Printf("# plain key: %s\n", apiKey)
	fmt.Println()
	fmt.Printf("# Sample bearer token for %q, valid for %s\n", *subject, *ttl)
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment (dev, staging, prod)")
	fmt.Println("- Store production keys in a secure secret manager")
}
