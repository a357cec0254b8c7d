package main

import (
	"flag"
	"fmt"
	"log"

	"workforce-attendance/internal/config"
	"workforce-attendance/internal/middleware"
	"workforce-attendance/internal/utils"
)

func main() {
	cfg, err := config.LoadToken()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	role := flag.String("role", middleware.RoleSupervisor, "role granted by the token")
	subject := flag.String("subject", "", "user id recorded as the token subject")
	name := flag.String("name", "", "display name")
	minutes := flag.Int("minutes", cfg.JwtAccessMinutes, "token lifetime in minutes")
	flag.Parse()

	if !middleware.KnownRole(*role) {
		log.Fatalf("unknown role %q", *role)
	}
	if *subject == "" {
		log.Fatal("-subject is required")
	}
	if *minutes <= 0 {
		log.Fatal("-minutes must be positive")
	}

	token, err := utils.GenerateAccessToken(*subject, *role, *name, cfg.JwtSecret, *minutes)
	if err != nil {
		log.Fatalf("token error: %v", err)
	}
	fmt.Println(token)
}
