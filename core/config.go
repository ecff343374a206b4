package core

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type (
	Config struct {
		Env              string `mapstructure:"-"`
		Debug            bool   `mapstructure:"debug"`
		TestMode         bool   `mapstructure:"testMode"`
		AppName          string `mapstructure:"appName"`
		Build            string `mapstructure:"build"`
		RollbarToken     string `mapstructure:"rollbarToken"`
		SendgridAPIKey   string `mapstructure:"sendgridAPIKey"`
		DefaultFromEmail string `mapstructure:"defaultFromEmail"`

		Database DatabaseConfig `mapstructure:"database"`
		Hashing  HashingConfig  `mapstructure:"hashing"`
		Migrator MigratorConfig `mapstructure:"migrator"`
		Seed     SeedConfig     `mapstructure:"seed"`
	}

	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"` // postgres | sqlite
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"adminUser"`
		AdminPassword string `mapstructure:"adminPassword"`
		DisableTLS    bool   `mapstructure:"disableTLS"`
		Path          string `mapstructure:"path"` // sqlite only
	}

	HashingConfig struct {
		Cost int `mapstructure:"cost"`
	}

	MigratorConfig struct {
		Workers int `mapstructure:"workers"`
	}

	SeedConfig struct {
		Admin AdminSeedConfig `mapstructure:"admin"`
	}

	AdminSeedConfig struct {
		Email    string `mapstructure:"email"`
		Username string `mapstructure:"username"`
		Name     string `mapstructure:"name"`
		Password string `mapstructure:"password"`
	}
)

// Address returns the "host:port" of the database server.
func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Smart School")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridAPIKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "smartschool")
	v.SetDefault("database.user", "smartschool")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "smartschool.db")

	v.SetDefault("hashing.cost", bcrypt.DefaultCost)
	v.SetDefault("migrator.workers", 4)

	v.SetDefault("seed.admin.email", "admin@smartschool.local")
	v.SetDefault("seed.admin.username", "admin")
	v.SetDefault("seed.admin.name", "Administrator")
	v.SetDefault("seed.admin.password", "Admin@12345")
}

// NewConfig loads the configuration from defaults, the optional config/.env.<env> file and
// environment variables prefixed with the environment name (eg. DEV_DATABASE_HOST).
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	conf.Env = env
	return conf, nil
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
