package core

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	CanvasConfig struct {
		APIURL   string        `json:"CANVAS_API_URL" validate:"required,url"`
		Token    string        `json:"CANVAS_API_TOKEN" validate:"required"`
		CourseID string        `json:"CANVAS_COURSE_ID" validate:"required"`
		UserID   string        `json:"CANVAS_USER_ID"`
		Timezone string        `json:"TZ" validate:"required"`
		PerPage  int           `json:"-"`
		MinDelay time.Duration `json:"-"`
		MaxDelay time.Duration `json:"-"`
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	MailConfig struct {
		SendgridKey string
		FromEmail   string
		NotifyTo    []string
	}

	EditorConfig struct {
		Address string
	}

	Config struct {
		Env          string
		AppName      string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Canvas   CanvasConfig
		Database DatabaseConfig
		Mail     MailConfig
		Editor   EditorConfig
	}
)

// Address returns the "host:port" of the journal database.
func (db DatabaseConfig) Address() string {
	if db.Port == "" {
		return db.Host
	}
	return db.Host + ":" + db.Port
}

// Enabled reports whether a journal database is configured.
func (db DatabaseConfig) Enabled() bool { return db.Host != "" }

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the upper-cased ENV (eg. DEV_DEBUG), except the Canvas variables
// which keep the unprefixed names used by the course scripts (CANVAS_API_URL, CANVAS_API_TOKEN, ...).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", false)
	conf.SetDefault("appName", "Course Tools")
	conf.SetDefault("build", "develop")
	conf.SetDefault("canvas.timezone", "America/New_York")
	conf.SetDefault("canvas.perPage", 100)
	conf.SetDefault("canvas.minDelay", time.Duration(0))
	conf.SetDefault("canvas.maxDelay", time.Duration(0))
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "coursetools")
	conf.SetDefault("mail.fromEmail", "noreply@localhost")
	conf.SetDefault("editor.address", "localhost:8090")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	// the course scripts read these without prefix
	_ = conf.BindEnv("canvas.apiUrl", "CANVAS_API_URL")
	_ = conf.BindEnv("canvas.token", "CANVAS_API_TOKEN")
	_ = conf.BindEnv("canvas.courseId", "CANVAS_COURSE_ID")
	_ = conf.BindEnv("canvas.userId", "CANVAS_USER_ID")
	_ = conf.BindEnv("canvas.timezone", "TZ")

	return &Config{
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		RollbarToken: conf.GetString("rollbarToken"),
		Canvas: CanvasConfig{
			APIURL:   strings.TrimRight(conf.GetString("canvas.apiUrl"), "/"),
			Token:    conf.GetString("canvas.token"),
			CourseID: conf.GetString("canvas.courseId"),
			UserID:   conf.GetString("canvas.userId"),
			Timezone: conf.GetString("canvas.timezone"),
			PerPage:  conf.GetInt("canvas.perPage"),
			MinDelay: conf.GetDuration("canvas.minDelay"),
			MaxDelay: conf.GetDuration("canvas.maxDelay"),
		},
		Database: DatabaseConfig{
			Engine:     conf.GetString("database.engine"),
			Host:       conf.GetString("database.host"),
			Port:       conf.GetString("database.port"),
			User:       conf.GetString("database.user"),
			Password:   conf.GetString("database.password"),
			Name:       conf.GetString("database.name"),
			DisableTLS: conf.GetBool("database.disableTLS"),
		},
		Mail: MailConfig{
			SendgridKey: conf.GetString("mail.sendgridKey"),
			FromEmail:   conf.GetString("mail.fromEmail"),
			NotifyTo:    conf.GetStringSlice("mail.notifyTo"),
		},
		Editor: EditorConfig{
			Address: conf.GetString("editor.address"),
		},
	}
}

// MergeJSONFile fills the Canvas settings that are still empty from a JSON file
// with the keys CANVAS_API_URL, CANVAS_API_TOKEN, CANVAS_COURSE_ID and TZ. Environment values win.
func (c *Config) MergeJSONFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}
	var fileConf CanvasConfig
	if err := json.Unmarshal(data, &fileConf); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}

	if c.Canvas.APIURL == "" {
		c.Canvas.APIURL = strings.TrimRight(fileConf.APIURL, "/")
	}
	if c.Canvas.Token == "" {
		c.Canvas.Token = fileConf.Token
	}
	if c.Canvas.CourseID == "" {
		c.Canvas.CourseID = fileConf.CourseID
	}
	if c.Canvas.UserID == "" {
		c.Canvas.UserID = fileConf.UserID
	}
	if os.Getenv("TZ") == "" && fileConf.Timezone != "" {
		c.Canvas.Timezone = fileConf.Timezone
	}
	return nil
}

// ValidateCanvas checks that everything needed to talk to Canvas is set.
func (c *Config) ValidateCanvas(validate *validator.Validate) error {
	return validate.Struct(c.Canvas)
}

// Location loads the configured Canvas time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Canvas.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading time zone %q", c.Canvas.Timezone)
	}
	return loc, nil
}
