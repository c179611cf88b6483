package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/callboard/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerDatabase = "callboard"
	containerUser     = "callboard"
	containerPassword = "callboard-pass"
)

// DBContainer is a throwaway database server and the configuration that reaches it
type DBContainer struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container
func (d *DBContainer) Terminate(t *testing.T) {
	if d == nil || d.Container == nil {
		return
	}
	if err := testcontainers.TerminateContainer(d.Container); err != nil {
		logMessage(t, "Failed to terminate database container: %v", err)
	}
}

// StartDBContainer starts a mariadb or postgres container. DB_IMAGE overrides
// the default image.
func StartDBContainer(ctx context.Context, t *testing.T, dbType string) (*DBContainer, error) {
	switch dbType {
	case "mariadb", "mysql":
		return startMariaDB(ctx, t, imageOr("mariadb:11"))
	case "postgres":
		return startPostgres(ctx, t, imageOr("postgres:16-alpine"))
	}
	return nil, fmt.Errorf("unsupported container database type: %s", dbType)
}

func startMariaDB(ctx context.Context, t *testing.T, image string) (*DBContainer, error) {
	tcpPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, err
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": containerPassword + "-root",
				"MYSQL_DATABASE":      containerDatabase,
				"MYSQL_USER":          containerUser,
				"MYSQL_PASSWORD":      containerPassword,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start mariadb: %w", err)
	}
	db := &DBContainer{Container: container}

	host, err := container.Host(ctx)
	if err != nil {
		db.Terminate(t)
		return nil, err
	}
	port, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		db.Terminate(t)
		return nil, err
	}
	db.Config = containerConfig("mariadb", host, port.Port())

	// The port opens before the server accepts logins
	if err := waitForMySQL(host, port.Port()); err != nil {
		db.Terminate(t)
		return nil, err
	}

	logMessage(t, "mariadb ready at %s:%s", host, port.Port())
	return db, nil
}

func waitForMySQL(host, port string) error {
	conn, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", containerUser, containerPassword, host, port, containerDatabase))
	if err != nil {
		return err
	}
	defer conn.Close()

	for i := 0; i < 30; i++ {
		if err = conn.Ping(); err == nil {
			return nil
		}
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("mariadb not ready after 30 seconds: %w", err)
}

func startPostgres(ctx context.Context, t *testing.T, image string) (*DBContainer, error) {
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(containerDatabase),
		postgres.WithUsername(containerUser),
		postgres.WithPassword(containerPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres: %w", err)
	}
	db := &DBContainer{Container: container}

	host, err := container.Host(ctx)
	if err != nil {
		db.Terminate(t)
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		db.Terminate(t)
		return nil, err
	}
	db.Config = containerConfig("postgres", host, port.Port())

	logMessage(t, "postgres ready at %s:%s", host, port.Port())
	return db, nil
}

func containerConfig(dbType, host, port string) *config.Config {
	return &config.Config{
		DBType:            dbType,
		DBHost:            host,
		DBPort:            port,
		DBDatabase:        containerDatabase,
		DBUser:            containerUser,
		DBPassword:        containerPassword,
		DBConnectionLimit: 5,
	}
}

func imageOr(fallback string) string {
	if image := os.Getenv("DB_IMAGE"); image != "" {
		return image
	}
	return fallback
}

// logMessage logs through t when running under a test and to stderr otherwise
func logMessage(t *testing.T, format string, args ...interface{}) {
	if t != nil {
		t.Helper()
		t.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}
