package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Auth struct {
		// 逗号分隔的 "邮箱:bcrypt哈希" 列表
		AuthorizedUsers string `env:"AUTHORIZED_USERS,required"`
	} `envPrefix:"AUTH_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 秒，默认 14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Generation struct {
		// 同一个日期范围的排班生成锁的有效期（秒）
		LockExpiration int `env:"LOCK_EXPIRATION" envDefault:"120"`
	} `envPrefix:"GENERATION_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD,required"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Email struct {
		From string `env:"FROM,required"`
		SMTP struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Seed struct {
		CoachCount int `env:"COACH_COUNT" envDefault:"8"`
		StoreCount int `env:"STORE_COUNT" envDefault:"2"`
	} `envPrefix:"SEED_"`
}

// AuthorizedUser: 一个允许登录的管理账号
type AuthorizedUser struct {
	Email        string
	PasswordHash string
}

// ParseAuthorizedUsers 解析配置中的管理账号列表，格式不完整的条目直接丢弃
func (c *Config) ParseAuthorizedUsers() []AuthorizedUser {
	var users []AuthorizedUser
	for _, pair := range strings.Split(c.Auth.AuthorizedUsers, ",") {
		email, hash, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || email == "" || hash == "" {
			continue
		}
		users = append(users, AuthorizedUser{Email: email, PasswordHash: hash})
	}
	return users
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}
