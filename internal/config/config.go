package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "WEATHER_CONFIG"

var validate = validator.New()

// AppConfig holds the settings of all three processes. Each binary validates
// only its own section.
type AppConfig struct {
	HistoryFile string `yaml:"historyFile" validate:"required"`
	ReportsDir  string `yaml:"reportsDir" validate:"required"`

	Agent        AgentConfig        `yaml:"agent"`
	ReportServer ReportServerConfig `yaml:"reportServer"`
	Logger       LoggerConfig       `yaml:"logger"`
}

// AgentConfig configures the report agent: LLM access, schedule and trigger port.
type AgentConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`

	OpenAIAPIKey  string        `yaml:"openaiApiKey" validate:"required"`
	OpenAIBaseURL string        `yaml:"openaiBaseUrl" validate:"required,url"`
	OpenAIModel   string        `yaml:"openaiModel" validate:"required"`
	LLMTimeout    time.Duration `yaml:"llmTimeout" validate:"gte=0"`

	// BreakerFailures is the number of consecutive LLM failures that open
	// the circuit breaker. 0, the default, disables it.
	BreakerFailures int `yaml:"breakerFailures" validate:"gte=0"`

	// ScheduleAt is the daily local wall-clock fire time, "HH:MM".
	ScheduleAt string `yaml:"scheduleAt" validate:"required,datetime=15:04"`
	// SchedulePoll is how often the scheduler checks whether the run is due.
	SchedulePoll time.Duration `yaml:"schedulePoll" validate:"gt=0"`

	ResetHistory bool `yaml:"resetHistory"`
}

// ReportServerConfig configures the report file server.
type ReportServerConfig struct {
	Port      string `yaml:"port" validate:"required,numeric"`
	StaticDir string `yaml:"staticDir" validate:"required"`
}

// LoggerConfig configures the MQTT history logger.
type LoggerConfig struct {
	Broker   string        `yaml:"broker" validate:"required,url"`
	ClientID string        `yaml:"clientId" validate:"required"`
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
}

// Load reads configuration from an optional YAML file and the environment,
// with sensible defaults. Environment variables win over the file.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		HistoryFile: "history.txt",
		ReportsDir:  "reports",
		Agent: AgentConfig{
			Port:          "5000",
			OpenAIBaseURL: "https://api.openai.com/v1",
			OpenAIModel:   "gpt-5-mini",
			ScheduleAt:    "00:00",
			SchedulePoll:  60 * time.Second,
		},
		ReportServer: ReportServerConfig{
			Port:      "8001",
			StaticDir: ".",
		},
		Logger: LoggerConfig{
			Broker:   "ws://broker.emqx.io:8083/mqtt",
			ClientID: "weather-history-logger",
			Interval: 5 * time.Minute,
		},
	}
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.HistoryFile, "HISTORY_FILE")
	setString(&cfg.ReportsDir, "REPORTS_DIR")

	setString(&cfg.Agent.Port, "AGENT_PORT")
	setString(&cfg.Agent.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.Agent.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Agent.OpenAIModel, "OPENAI_MODEL")
	setString(&cfg.Agent.ScheduleAt, "SCHEDULE_AT")
	if err := setDuration(&cfg.Agent.LLMTimeout, "LLM_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Agent.SchedulePoll, "SCHEDULE_POLL"); err != nil {
		return err
	}
	if err := setInt(&cfg.Agent.BreakerFailures, "LLM_BREAKER_FAILURES"); err != nil {
		return err
	}
	if err := setBool(&cfg.Agent.ResetHistory, "PIPELINE_RESET_HISTORY"); err != nil {
		return err
	}

	setString(&cfg.ReportServer.Port, "REPORT_SERVER_PORT")
	setString(&cfg.ReportServer.StaticDir, "STATIC_DIR")

	setString(&cfg.Logger.Broker, "MQTT_BROKER")
	setString(&cfg.Logger.ClientID, "MQTT_CLIENT_ID")
	if err := setDuration(&cfg.Logger.Interval, "HISTORY_INTERVAL"); err != nil {
		return err
	}
	return nil
}

// ValidateAgent checks the fields the agent process needs.
func (c *AppConfig) ValidateAgent() error {
	if err := c.validateShared(); err != nil {
		return err
	}
	return validateSection("agent", c.Agent)
}

// ValidateReportServer checks the fields the report server needs.
func (c *AppConfig) ValidateReportServer() error {
	if err := validate.StructPartial(c, "ReportsDir"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return validateSection("reportServer", c.ReportServer)
}

// ValidateLogger checks the fields the history logger needs.
func (c *AppConfig) ValidateLogger() error {
	if err := validate.StructPartial(c, "HistoryFile"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return validateSection("logger", c.Logger)
}

func (c *AppConfig) validateShared() error {
	if err := validate.StructPartial(c, "HistoryFile", "ReportsDir"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validateSection(name string, section any) error {
	if err := validate.Struct(section); err != nil {
		return fmt.Errorf("invalid %s config: %w", name, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
