package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Postgres  DBConfig
	Redis     RedisConfig
	S3        S3Config
	Logger    Logger
	Queues    QueuesConfig
	Events    EventsConfig
	Storage   StorageConfig
	CDN       CDNConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	AppVersion        string
	Port              string
	Mode              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	CtxDefaultTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
	SSLMode  string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	TLS           bool
}

type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	InputBucket  string
	OutputBucket string
	AssetPrefix  string
	UploadURLTTL time.Duration
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

// QueuesConfig names the job queue for every kind of work.
type QueuesConfig struct {
	Download    string
	Validate    string
	Thumbnail   string
	Upload      string
	Process360  string
	Process480  string
	Process540  string
	Process720  string
	Process1080 string
	JobTTL      time.Duration
}

type EventsConfig struct {
	AssetStatusQueue   string
	AssetMetadataQueue string
	FileStatusQueue    string
	BlockTimeout       time.Duration
}

type StorageConfig struct {
	LocalRoot    string
	MinFreeBytes uint64
}

type CDNConfig struct {
	BaseURL  string
	Secret   string
	TokenTTL time.Duration
}

type SchedulerConfig struct {
	Enabled                bool
	VerifyJobsInterval     time.Duration
	CleanupInterval        time.Duration
	PromoteDelayedInterval time.Duration
}

// Names lists every job queue, in ladder order for the processing queues.
func (q QueuesConfig) Names() []string {
	return []string{
		q.Download, q.Validate, q.Thumbnail, q.Upload,
		q.Process360, q.Process480, q.Process540, q.Process720, q.Process1080,
	}
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) setDefaults() {
	if c.Server.CtxDefaultTimeout == 0 {
		c.Server.CtxDefaultTimeout = 5 * time.Second
	}
	if c.Events.BlockTimeout == 0 {
		c.Events.BlockTimeout = 5 * time.Second
	}
	if c.CDN.TokenTTL == 0 {
		c.CDN.TokenTTL = 6 * time.Hour
	}
	if c.S3.UploadURLTTL == 0 {
		c.S3.UploadURLTTL = time.Hour
	}
	if c.Scheduler.VerifyJobsInterval == 0 {
		c.Scheduler.VerifyJobsInterval = 10 * time.Minute
	}
	if c.Scheduler.CleanupInterval == 0 {
		c.Scheduler.CleanupInterval = 30 * time.Minute
	}
	if c.Scheduler.PromoteDelayedInterval == 0 {
		c.Scheduler.PromoteDelayedInterval = 5 * time.Second
	}
	if c.Queues.JobTTL == 0 {
		c.Queues.JobTTL = 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	if c.Storage.LocalRoot == "" {
		return errors.New("storage.localRoot is required")
	}
	if c.CDN.Secret == "" {
		return errors.New("cdn.secret is required")
	}
	names := append(c.Queues.Names(), c.Events.AssetStatusQueue, c.Events.AssetMetadataQueue, c.Events.FileStatusQueue)
	for _, name := range names {
		if name == "" {
			return errors.New("queue names must not be empty")
		}
	}
	return nil
}
