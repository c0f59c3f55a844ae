package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/auth"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/session"
)

// Uploads a CSV file to a GraphQL endpoint via the multipart convention.
// Set GRAPHQL_ENDPOINT and GRAPHQL_TOKEN (e.g. in a .env file), then:
//
//	go run ./demo/upload weather.csv
func main() {

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: upload <csv file>")
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	s := session.New(os.Getenv("GRAPHQL_ENDPOINT"))
	if token := os.Getenv("GRAPHQL_TOKEN"); token != "" {
		s.SetAuth(auth.NewBearerAuth(token))
	}

	query := `mutation uploadWeatherData($town: String, $data: Upload) {
		uploadWeatherData(town: $town, data: $data) {
			ok
		}
	}`

	resp, err := s.Query(context.Background(), query,
		session.WithVariables(map[string]interface{}{
			"town": "Sutherland",
			"data": nil,
		}),
		session.WithFiles(
			map[string][]string{"0": {"variables.data"}},
			map[string]session.File{"0": {
				Name:        os.Args[1],
				Content:     file,
				ContentType: "text/csv",
			}},
		),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: %s\n", resp.Status, body)
}
