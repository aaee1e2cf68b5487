// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Lockout                 `yaml:"lockout"`
	Admin                   `yaml:"admin"`
}

// Admin структура с данными стартового администратора.
// Учетная запись создается при запуске, если её ещё нет:
// регистрация выдаёт только роль user, другого пути получить
// администратора у свежего развертывания нет.
type Admin struct {
	AdminUsername string `yaml:"admin_username" env-default:"admin"`
	AdminEmail    string `yaml:"admin_email" env-default:"admin@example.com"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"admin12345"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"10s"`
}

// JWTToken структура для работы с jwt-токеном.
// Срок жизни токена администратора короче пользовательского намеренно:
// админская сессия даёт больше прав.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	AdminTTL     time.Duration `yaml:"admin_ttl" env-default:"24h"`
	UserTTL      time.Duration `yaml:"user_ttl" env-default:"168h"`
}

// Lockout структура с порогами защиты от перебора для входа и регистрации
type Lockout struct {
	LoginMaxAttempts    int           `yaml:"login_max_attempts" env-default:"5"`
	LoginWindow         time.Duration `yaml:"login_window" env-default:"15m"`
	RegisterMaxAttempts int           `yaml:"register_max_attempts" env-default:"3"`
	RegisterWindow      time.Duration `yaml:"register_window" env-default:"1h"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной окружения CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  AdminTTL: %s\n"+
			"  UserTTL: %s\n"+
			"Lockout:\n"+
			"  LoginMaxAttempts: %d\n"+
			"  LoginWindow: %s\n"+
			"  RegisterMaxAttempts: %d\n"+
			"  RegisterWindow: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.MigrationsPath,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AdminTTL,
		c.UserTTL,
		c.LoginMaxAttempts,
		c.LoginWindow,
		c.RegisterMaxAttempts,
		c.RegisterWindow,
	)
}
