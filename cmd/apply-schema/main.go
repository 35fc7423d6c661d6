package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"civicconnect/internal/config"

	_ "github.com/lib/pq"
)

// Applies a schema file statement by statement. Defaults to
// db/schema.sql so a fresh checkout bootstraps with no arguments.
func main() {
	schemaFile := "db/schema.sql"
	if len(os.Args) > 1 {
		schemaFile = os.Args[1]
	}

	sqlContent, err := os.ReadFile(schemaFile)
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	cfg := config.Load()
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Cannot open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	fmt.Printf("Connected to database: %s\n", cfg.Database.Database)

	statements := splitStatements(string(sqlContent))
	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to execute statement %d: %v\nStatement: %.100s", i+1, err, stmt)
		}
	}
	fmt.Printf("Applied %d statements from %s\n", len(statements), schemaFile)
}

// splitStatements drops "--" comment lines first, then splits on
// semicolons. Comments must go before the split: a header comment
// would otherwise hide the first statement of its chunk.
func splitStatements(sqlContent string) []string {
	var stripped strings.Builder
	for _, line := range strings.Split(sqlContent, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		stripped.WriteString(line)
		stripped.WriteString("\n")
	}

	statements := []string{}
	for _, stmt := range strings.Split(stripped.String(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}
