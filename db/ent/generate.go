package main

import (
	"log"

	"entgo.io/ent/entc"
	"entgo.io/ent/entc/gen"
)

// Regenerates the typed client from the schemas in db/ent/schema.
// Run from the repository root: go run ./db/ent
func main() {
	err := entc.Generate(
		"./db/ent/schema",
		&gen.Config{
			Target:  "gen/ent",
			Package: "github.com/tirepoint/garage-docs/gen/ent",
			Schema:  "github.com/tirepoint/garage-docs/db/ent/schema",
		},
	)
	if err != nil {
		log.Fatal(err)
	}
}
