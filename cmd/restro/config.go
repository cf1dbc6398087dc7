package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const appID = "restro"

func parseEnv() (*config, error) {
	c := new(config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	return c, nil
}

type config struct {
	LogLevel         string `envconfig:"log_level" default:"info"`
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8000"`

	DBUser               string        `envconfig:"db_user" required:"true"`
	DBPassword           string        `envconfig:"db_password" required:"true"`
	DBHost               string        `envconfig:"db_host" required:"true"`
	DBName               string        `envconfig:"db_name" required:"true"`
	DBMaxConnections     int           `envconfig:"db_max_connections" default:"10"`
	DBConnectionLifetime time.Duration `envconfig:"db_connection_lifetime" default:"1m"`
	MigrationsDir        string        `envconfig:"migrations_dir" default:"./data/mysql/migrations"`

	TokenSecret string        `envconfig:"token_secret" required:"true"`
	TokenTTL    time.Duration `envconfig:"token_ttl" default:"2160h"`
	BcryptCost  int           `envconfig:"bcrypt_cost" default:"10"`

	// OTPStorage is "mysql" or "memory".
	OTPStorage string        `envconfig:"otp_storage" default:"mysql"`
	OTPTTL     time.Duration `envconfig:"otp_ttl" default:"10m"`

	// Events are only logged when AMQPURL is empty.
	AMQPURL            string        `envconfig:"amqp_url"`
	AMQPExchange       string        `envconfig:"amqp_exchange" default:"restro.events"`
	AMQPPublishTimeout time.Duration `envconfig:"amqp_publish_timeout" default:"5s"`

	// Images are stored under ImageDir when no cloudinary account is configured.
	CloudinaryCloudName string `envconfig:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `envconfig:"cloudinary_api_key"`
	CloudinaryAPISecret string `envconfig:"cloudinary_api_secret"`
	CloudinaryFolder    string `envconfig:"cloudinary_folder" default:"restro"`
	ImageDir            string `envconfig:"image_dir" default:"./data/images"`
	ImageBaseURL        string `envconfig:"image_base_url" default:"http://localhost:8000/images"`

	UploadDir         string        `envconfig:"upload_dir"`
	MaxUploadSize     int64         `envconfig:"max_upload_size" default:"33554432"`
	UploadAttempts    int           `envconfig:"upload_attempts" default:"3"`
	UploadInterval    time.Duration `envconfig:"upload_interval" default:"1s"`
	UploadConcurrency int           `envconfig:"upload_concurrency" default:"4"`
}
