package config_test

import (
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/ems/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postgresYAML = `
env: development
http:
  port: "8081"
  read_timeout: 5s
monitoring:
  port: "9191"
storage:
  driver: postgres
postgres:
  host: db.internal
  user: ems
  password: secret
  db_name: employees
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := filet.TmpDir(t, "")
	file := filet.TmpFile(t, dir, content)

	return file.Name()
}

func TestLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)

	cfg, err := config.Load(writeConfig(t, postgresYAML))

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "9191", cfg.Monitoring.Port)
	assert.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "ems", cfg.Postgres.User)
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, "employees", cfg.Postgres.Dbname)
	assert.Equal(t, "migrations", cfg.Migrations)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	defer filet.CleanUp(t)

	t.Setenv("EMS_POSTGRES_HOST", "testHost")
	t.Setenv("EMS_POSTGRES_PORT", "12345")
	t.Setenv("EMS_HTTP_PORT", "7070")

	cfg, err := config.Load(writeConfig(t, postgresYAML))

	require.NoError(t, err)
	assert.Equal(t, "testHost", cfg.Postgres.Host)
	assert.Equal(t, "12345", cfg.Postgres.Port)
	assert.Equal(t, "7070", cfg.HTTP.Port)
	assert.Equal(t, "ems", cfg.Postgres.User)
}

func TestLoad_SQLiteFromEnv(t *testing.T) {
	t.Setenv("EMS_STORAGE_DRIVER", "SQLite")
	t.Setenv("EMS_SQLITE_PATH", ":memory:")

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":memory:", cfg.SQLite.Path)
	assert.Equal(t, ":8080", cfg.HTTP.Address())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		path       string
		wantErr    error
		wantErrMsg string
	}{
		{
			name:    "missing file",
			path:    "/definitely/not/here.yaml",
			wantErr: config.ErrConfigNotFound,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"EMS_STORAGE_DRIVER": "mongo"},
			wantErr: config.ErrInvalidDriver,
		},
		{
			name:    "postgres without host",
			env:     map[string]string{"EMS_POSTGRES_USER": "ems", "EMS_POSTGRES_DB_NAME": "ems"},
			wantErr: config.ErrMissingPostgres,
		},
		{
			name:       "invalid duration",
			env:        map[string]string{"EMS_STORAGE_DRIVER": "sqlite", "EMS_HTTP_READ_TIMEOUT": "error_value"},
			wantErrMsg: "failed to parse http.read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := config.Load(tt.path)

			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantErrMsg != "" {
				assert.ErrorContains(t, err, tt.wantErrMsg)
			}
		})
	}
}

func TestMustLoad(t *testing.T) {
	defer filet.CleanUp(t)

	t.Setenv("CONFIG_PATH", writeConfig(t, postgresYAML))

	cfg := config.MustLoad()

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
}

func TestMustLoad_Panics(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("EMS_STORAGE_DRIVER", "oracle")

	assert.PanicsWithValue(t, `config error: unsupported storage driver: "oracle"`, func() {
		config.MustLoad()
	})
}
