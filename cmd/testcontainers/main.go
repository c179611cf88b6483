package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/callboard/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dbType string
	flag.StringVar(&dbType, "db", "", "database type, mariadb or postgres (default DB_TYPE)")
	flag.Parse()

	usage := `
Run a callboard database testcontainer with the environment variables from the .env file.
The DB_* settings that reach it are printed once it is ready.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-db mariadb|postgres]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env -db postgres
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}
	if dbType == "" {
		dbType = os.Getenv("DB_TYPE")
	}
	if dbType == "" {
		dbType = "mariadb"
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	container, err := testutil.StartDBContainer(context.Background(), nil, dbType)
	if err != nil {
		log.Fatalf("Failed to create test container: %v\n", err)
	}

	cfg := container.Config
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test container...\n", sig)
	container.Terminate(nil)
}
