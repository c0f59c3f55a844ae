package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/session"
)

// Queries the public countries GraphQL API.
func main() {

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	s := session.New("https://countries.trevorblades.com/graphql")

	resp, err := s.Query(context.Background(),
		`query country($code: ID!) { country(code: $code) { name capital currency } }`,
		session.WithVariable("code", "PL"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var result struct {
		Data struct {
			Country struct {
				Name     string `json:"name"`
				Capital  string `json:"capital"`
				Currency string `json:"currency"`
			} `json:"country"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal(err)
	}

	c := result.Data.Country
	fmt.Printf("%s: capital %s, currency %s\n", c.Name, c.Capital, c.Currency)
}
