package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000" validate:"min=1,max=65535"`
	Environment string `envconfig:"ENV" default:"development" validate:"oneof=development staging production test"`
	LogFile     string `envconfig:"LOG_FILE"`

	// Detection
	Detector         string        `envconfig:"DETECTOR" default:"emotionapi" validate:"oneof=emotionapi deepface rekognition mock"`
	EmotionAPIURL    string        `envconfig:"EMOTION_API_URL" default:"http://localhost:5000/emotion" validate:"omitempty,url"`
	DetectionTimeout time.Duration `envconfig:"DETECTION_TIMEOUT" default:"10s" validate:"gt=0"`
	DetectionRetries int           `envconfig:"DETECTION_RETRIES" default:"0" validate:"min=0,max=5"`
	DeepFaceURL      string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005" validate:"omitempty,url"`
	DeepFaceRetries  int           `envconfig:"DEEPFACE_RETRIES" default:"3" validate:"min=0,max=10"`
	AWSRegion        string        `envconfig:"AWS_REGION" default:"us-east-1"`

	// Memes
	EmotionPriority []string `envconfig:"EMOTION_PRIORITY" default:"happiness,surprise,anger,sadness,fear,disgust,contempt,neutral"`
	DefaultLocale   string   `envconfig:"DEFAULT_LOCALE" default:"en" validate:"required"`
	CatalogDir      string   `envconfig:"CATALOG_DIR"`
	FontDir         string   `envconfig:"FONT_DIR"`

	// Rendering
	OutputMimeType string `envconfig:"OUTPUT_MIME_TYPE" default:"image/png" validate:"oneof=image/png image/jpeg image/gif image/bmp image/tiff"`
	JPEGQuality    int    `envconfig:"JPEG_QUALITY" default:"90" validate:"min=1,max=100"`
	MaxImageSize   int    `envconfig:"MAX_IMAGE_SIZE" default:"10485760" validate:"gt=0"`

	// Rate limiting
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"60" validate:"min=0"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m" validate:"gt=0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize trims list entries, since envconfig splits on commas only.
func (c *Config) normalize() {
	for i, label := range c.EmotionPriority {
		c.EmotionPriority[i] = strings.TrimSpace(label)
	}
}

// Validate checks field constraints and that the default locale is a
// well-formed BCP 47 tag.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("validate config: DEFAULT_LOCALE %q: %w", c.DefaultLocale, err)
	}
	for _, label := range c.EmotionPriority {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("validate config: EMOTION_PRIORITY contains an empty label")
		}
	}
	return nil
}

// DefaultLanguage returns the parsed default locale. Validate must have passed.
func (c *Config) DefaultLanguage() language.Tag {
	return language.Make(c.DefaultLocale)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
