package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3003"`
	Redis      Redis     `yaml:"redis" env-prefix:"REDIS_"`
	Room       Room      `yaml:"room" env-prefix:"ROOM_"`
	WebSocket  WebSocket `yaml:"websocket" env-prefix:"WS_"`
}

// Redis is only used as a snapshot mirror. Disabled means snapshots stay in memory.
type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"PORT" env-default:"6379"`
	Password    string        `yaml:"password" env:"PASSWORD"`
	DB          int           `yaml:"db" env:"DB" env-default:"0"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"SNAPSHOT_TTL" env-default:"24h"`
}

type Room struct {
	CodeLength    int    `yaml:"code-length" env:"CODE_LENGTH" env-default:"6"`
	CodeAlphabet  string `yaml:"code-alphabet" env:"CODE_ALPHABET" env-default:"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"`
	MaxNameLength int    `yaml:"max-name-length" env:"MAX_NAME_LENGTH" env-default:"32"`

	// KeepOnLeave leaves the remaining player seated in a reset room. When false a leave closes the room.
	KeepOnLeave bool `yaml:"keep-on-leave" env:"KEEP_ON_LEAVE"`
}

type WebSocket struct {
	SendBuffer     int           `yaml:"send-buffer" env:"SEND_BUFFER" env-default:"32"`
	MaxMessageSize int64         `yaml:"max-message-size" env:"MAX_MESSAGE_SIZE" env-default:"4096"`
	WriteWait      time.Duration `yaml:"write-wait" env:"WRITE_WAIT" env-default:"10s"`
	PongWait       time.Duration `yaml:"pong-wait" env:"PONG_WAIT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

// Load reads path when it exists and the environment otherwise. Environment values win.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
