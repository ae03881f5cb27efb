package bootstrap

import (
	"fmt"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/database"
)

// DatabaseComponents groups the connection and repositories.
type DatabaseComponents struct {
	Conn        *database.Connection
	ArchiveRepo *database.ArchiveRepository
	JobRepo     *database.JobRepository
}

// SetupDatabase connects to PostgreSQL and creates the repositories.
func SetupDatabase(deps *Deps) (*DatabaseComponents, error) {
	dbCfg := deps.Config.Database

	conn, err := database.NewConnection(&database.Config{
		Host:            dbCfg.Host,
		Port:            dbCfg.Port,
		User:            dbCfg.User,
		Password:        dbCfg.Password,
		Database:        dbCfg.Database,
		SSLMode:         dbCfg.SSLMode,
		MaxConnections:  dbCfg.MaxConnections,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnectionMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &DatabaseComponents{
		Conn:        conn,
		ArchiveRepo: database.NewArchiveRepository(conn),
		JobRepo:     database.NewJobRepository(conn),
	}, nil
}
