package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/vistatrade/firesync/internal/database"
)

func main() {
	var (
		host     = flag.String("host", "localhost", "Database host")
		port     = flag.Int("port", 5432, "Database port")
		username = flag.String("username", "postgres", "Database username")
		password = flag.String("password", "", "Database password")
		dbname   = flag.String("database", "firesync", "Database name")
		sslmode  = flag.String("sslmode", "disable", "SSL mode")
	)
	flag.Parse()

	// Override with environment variables if available
	if envHost := os.Getenv("DB_HOST"); envHost != "" {
		*host = envHost
	}
	if envPort := os.Getenv("DB_PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			*port = p
		}
	}
	if envUsername := os.Getenv("DB_USERNAME"); envUsername != "" {
		*username = envUsername
	}
	if envPassword := os.Getenv("DB_PASSWORD"); envPassword != "" {
		*password = envPassword
	}
	if envDatabase := os.Getenv("DB_DATABASE"); envDatabase != "" {
		*dbname = envDatabase
	}
	if envSSLMode := os.Getenv("DB_SSL_MODE"); envSSLMode != "" {
		*sslmode = envSSLMode
	}

	config := database.DefaultConfig()
	config.Host = *host
	config.Port = *port
	config.Username = *username
	config.Password = *password
	config.Database = *dbname
	config.SSLMode = *sslmode

	conn, err := database.NewConnection(config)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}

	if err := conn.AutoMigrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migrations completed successfully")
}
