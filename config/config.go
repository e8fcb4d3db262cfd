package config

import (
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	DSN      string `yaml:"dsn"` // full postgres connection string, overrides host/port/name/user/passwd
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig Web server config
type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"` // built site assets, including product images
	BodyLimit string `yaml:"body_limit"`
}

// LogConfig Logger config
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// MailConfig describes the SMTP account used to forward inquiries and the
// operator mailbox that receives them.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"` // app-specific password
	From     string `yaml:"from"`
	To       string `yaml:"to"` // operator mailbox
	Workers  int    `yaml:"workers"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system"`
	Web      WebConfig  `yaml:"web"`
	Database DBConfig   `yaml:"database"`
	Logger   LogConfig  `yaml:"logger"`
	Mail     MailConfig `yaml:"mail"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
}

// Recipient returns the operator mailbox, falling back to the sending account.
func (m MailConfig) Recipient() string {
	if m.To != "" {
		return m.To
	}
	return m.Username
}

// Sender returns the From address, falling back to the sending account.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.Username
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt(v)
	}
}

// DefaultAppConfig returns the built-in configuration used when no file is given.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "Spicesite",
			Location: "Asia/Kolkata",
			Workdir:  "/var/spicesite",
			Debug:    false,
		},
		Web: WebConfig{
			Host:      "0.0.0.0",
			Port:      5000,
			BodyLimit: "64K",
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "spicesite",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  20,
			IdleConn: 5,
			Debug:    false,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/spicesite/logs/spicesite.log",
		},
		Mail: MailConfig{
			Host:    "smtp.gmail.com",
			Port:    465,
			Workers: 4,
		},
	}
}

// LoadConfig reads cfile (yaml) over the defaults, then applies .env and
// environment overrides. An empty cfile falls back to the standard locations.
func LoadConfig(cfile string) (*AppConfig, error) {
	if cfile == "" {
		for _, p := range []string{"spicesite.yml", "/etc/spicesite.yml"} {
			if _, err := os.Stat(p); err == nil {
				cfile = p
				break
			}
		}
	}

	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// .env is optional, real environment wins over it
	_ = godotenv.Load()
	applyEnv(cfg)

	cfg.Database.Type = strings.ToLower(strings.TrimSpace(cfg.Database.Type))
	if cfg.Mail.Workers <= 0 {
		cfg.Mail.Workers = 4
	}
	cfg.initDirs()
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("SPICESITE_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("SPICESITE_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("SPICESITE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("SPICESITE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("SPICESITE_WEB_PORT", &cfg.Web.Port)
	setEnvIntValue("PORT", &cfg.Web.Port)
	setEnvValue("SPICESITE_WEB_STATIC_DIR", &cfg.Web.StaticDir)

	setEnvValue("SPICESITE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("SPICESITE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("SPICESITE_DB_PORT", &cfg.Database.Port)
	setEnvValue("SPICESITE_DB_NAME", &cfg.Database.Name)
	setEnvValue("SPICESITE_DB_USER", &cfg.Database.User)
	setEnvValue("SPICESITE_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("DATABASE_URL", &cfg.Database.DSN)
	setEnvBoolValue("SPICESITE_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("SPICESITE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("SPICESITE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("SPICESITE_MAIL_HOST", &cfg.Mail.Host)
	setEnvIntValue("SPICESITE_MAIL_PORT", &cfg.Mail.Port)
	setEnvValue("SPICESITE_MAIL_USER", &cfg.Mail.Username)
	setEnvValue("SPICESITE_MAIL_PASS", &cfg.Mail.Password)
	setEnvValue("SPICESITE_MAIL_FROM", &cfg.Mail.From)
	setEnvValue("SPICESITE_MAIL_TO", &cfg.Mail.To)
	setEnvIntValue("SPICESITE_MAIL_WORKERS", &cfg.Mail.Workers)
}
