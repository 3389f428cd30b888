package pgxdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/marcodd23/go-pgasync/pkg/dbx"
	"github.com/marcodd23/go-pgasync/pkg/errorx"
	"github.com/marcodd23/go-pgasync/pkg/logx"
)

// Connect - establish a new asynchronous Postgres connection.
//
// Arguments:
//   - ctx: The context bounding the connection establishment.
//   - dbConf: The connection configuration.
//
// Returns:
//   - *Conn: the connection, ready to be wrapped in a dbx.Session.
//   - error: a *errorx.DatabaseError if the configuration is invalid or the server cannot be reached.
func Connect(ctx context.Context, dbConf dbx.ConnConfig) (*Conn, error) {
	pgConfig, err := createConnectionConfiguration(ctx, dbConf)
	if err != nil {
		return nil, err
	}

	pgConn, err := pgconn.ConnectConfig(ctx, pgConfig)
	if err != nil {
		return nil, errorx.NewDatabaseErrorWrapper(err, "Error connecting to %s", dbConf.String())
	}

	logx.
		GetLogger().
		LogInfo(ctx, fmt.Sprintf("Created new async Connection: DB=%s, HOST=%s, PORT=%d",
			pgConfig.Database,
			pgConfig.Host,
			pgConfig.Port))

	return NewConn(pgConn), nil
}

// SetupSession - connect and wrap the connection in a dbx.Session.
// Results are decoded with a TypedResultBuilder sharing the connection type map unless opts
// set another builder. On failure the error is logged and the process exits, as for any
// startup dependency.
func SetupSession(ctx context.Context, dbConf dbx.ConnConfig, opts ...dbx.SessionOption) (*dbx.Session, *Conn) {
	conn, err := Connect(ctx, dbConf)
	if err != nil {
		logx.GetLogger().LogFatal(ctx, "connection Error", err)
		return nil, nil
	}

	opts = append([]dbx.SessionOption{
		dbx.WithExecutorOptions(dbx.WithResultBuilder(NewTypedResultBuilder(conn.TypeMap()))),
	}, opts...)

	return dbx.NewSession(conn, opts...), conn
}

func createConnectionConfiguration(ctx context.Context, dbConf dbx.ConnConfig) (*pgconn.Config, error) {
	if dbConf.DBName == "" {
		return nil, errorx.NewDatabaseError("Error creating Connection Config: DB_Name is EMPTY")
	}

	if dbConf.User == "" {
		return nil, errorx.NewDatabaseError("Error creating Connection Config: DB_User is EMPTY")
	}

	if dbConf.Password == "" {
		return nil, errorx.NewDatabaseError("Error creating Connection Config: DB_Password is EMPTY")
	}

	pgConfig, err := pgconn.ParseConfig(buildDSN(ctx, dbConf))
	if err != nil {
		return nil, errorx.NewDatabaseErrorWrapper(errors.Wrap(err, "parse config"), "Error creating Connection Config")
	}

	return pgConfig, nil
}

// buildDSN - build a keyword/value connection string from the config.
func buildDSN(ctx context.Context, dbConf dbx.ConnConfig) string {
	params := []string{
		dsnParam("dbname", dbConf.DBName),
		dsnParam("user", dbConf.User),
		dsnParam("password", dbConf.Password),
	}

	if dbConf.IsLocalEnv || dbConf.VpcDirectConnection {
		// If local we need to specify the port, if not local
		// the port is defined in the Unix Socket configuration
		// mounted in the container at runtime (5432)
		logx.
			GetLogger().
			LogInfo(ctx, fmt.Sprintf("Connecting to DB on HOST:%s and PORT:%d",
				dbConf.Host,
				uint16(dbConf.Port)))
		params = append(params, dsnParam("host", dbConf.Host))
		if dbConf.Port > 0 {
			params = append(params, fmt.Sprintf("port=%d", dbConf.Port))
		}
	} else {
		logx.GetLogger().LogInfo(ctx, "Connecting to DB trough CLOUD SQL PROXY")
		params = append(params, dsnParam("host", fmt.Sprintf("/cloudsql/%s", dbConf.Host)))
	}

	if dbConf.SSLMode != "" {
		params = append(params, dsnParam("sslmode", dbConf.SSLMode))
	}

	if dbConf.ApplicationName != "" {
		params = append(params, dsnParam("application_name", dbConf.ApplicationName))
	}

	if dbConf.ConnectTimeout > 0 {
		secs := int(dbConf.ConnectTimeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		params = append(params, fmt.Sprintf("connect_timeout=%d", secs))
	}

	return strings.Join(params, " ")
}

func dsnParam(key, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return fmt.Sprintf("%s='%s'", key, escaped)
}
