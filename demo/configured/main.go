package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/config"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/session"
)

func main() {

	// Load the YAML config; ${VARS} resolve from the environment and .env
	loader := config.NewDefaultLoader()

	cfg, err := loader.LoadWithEnv("demo/configured/session.yaml", "")
	if err != nil {
		log.Fatal(err)
	}

	// Create the session from config
	s, err := session.NewFromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := s.Query(context.Background(), `query { viewer { login } }`)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: %s\n", resp.Status, body)
}
