package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Scan     Scan
	Storage  Storage
}

type Server struct {
	Port string
	Mode string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Scan holds everything the recognition pipeline needs: which interpreter
// runs the scanner scripts, where they live, and the pool/timeout limits.
// Loaded once at startup; nothing re-reads this per request.
type Scan struct {
	PythonBin      string
	ScriptDir      string
	UploadDir      string
	DefaultVariant string
	MaxConcurrent  int
	WorkerTimeout  int // seconds, per image
}

type Storage struct {
	Type           string // "local" or "minio"
	LocalPath      string
	BaseURL        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SCAN_PYTHON_BIN", "python3")
	viper.SetDefault("SCAN_SCRIPT_DIR", "./python")
	viper.SetDefault("SCAN_UPLOAD_DIR", "./public/uploads/scan")
	viper.SetDefault("SCAN_DEFAULT_VARIANT", "scanner2")
	viper.SetDefault("SCAN_MAX_CONCURRENT", 4)
	viper.SetDefault("SCAN_WORKER_TIMEOUT", 30)
	viper.SetDefault("STORAGE_TYPE", "local")
	viper.SetDefault("STORAGE_LOCAL_PATH", "./public")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("SERVER_MODE")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Scan.PythonBin = viper.GetString("SCAN_PYTHON_BIN")
	config.Scan.ScriptDir = viper.GetString("SCAN_SCRIPT_DIR")
	config.Scan.UploadDir = viper.GetString("SCAN_UPLOAD_DIR")
	config.Scan.DefaultVariant = viper.GetString("SCAN_DEFAULT_VARIANT")
	config.Scan.MaxConcurrent = viper.GetInt("SCAN_MAX_CONCURRENT")
	config.Scan.WorkerTimeout = viper.GetInt("SCAN_WORKER_TIMEOUT")

	config.Storage.Type = viper.GetString("STORAGE_TYPE")
	config.Storage.LocalPath = viper.GetString("STORAGE_LOCAL_PATH")
	config.Storage.BaseURL = viper.GetString("STORAGE_BASE_URL")
	config.Storage.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	config.Storage.MinioAccessKey = viper.GetString("MINIO_ACCESS_KEY")
	config.Storage.MinioSecretKey = viper.GetString("MINIO_SECRET_KEY")
	config.Storage.MinioBucket = viper.GetString("MINIO_BUCKET")
	config.Storage.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")

	log.Info().Str("port", config.Server.Port).Str("storage", config.Storage.Type).Msg("Config loaded")
	return &config, nil
}
