package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	BigBasket BigBasketConfig `mapstructure:"bigbasket"`
	Grab      GrabConfig      `mapstructure:"grab"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// BrowserConfig holds headless Chrome settings shared by both pipelines
type BrowserConfig struct {
	Headless     bool          `mapstructure:"headless"`
	UserAgent    string        `mapstructure:"user_agent"`
	ExecPath     string        `mapstructure:"exec_path"`
	Proxies      []string      `mapstructure:"proxies"`
	ProxyTestURL string        `mapstructure:"proxy_test_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	QuietPeriod  time.Duration `mapstructure:"quiet_period"` // no new watched response for this long ends a capture wait
}

// BigBasketConfig holds the product pipeline settings
type BigBasketConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	CityURLPrefix        string        `mapstructure:"city_url_prefix"`
	MenuURLPrefix        string        `mapstructure:"menu_url_prefix"`
	ProductsURLPrefix    string        `mapstructure:"products_url_prefix"`
	PageTimeout          time.Duration `mapstructure:"page_timeout"`
	NavigationsPerMinute int           `mapstructure:"navigations_per_minute"`
	OutputFile           string        `mapstructure:"output_file"`
}

// GrabConfig holds the restaurant pipeline settings
type GrabConfig struct {
	HomeURL           string        `mapstructure:"home_url"`
	SearchURLPrefix   string        `mapstructure:"search_url_prefix"`
	Location          string        `mapstructure:"location"`
	LocationSelector  string        `mapstructure:"location_selector"`
	SearchButtonXPath string        `mapstructure:"search_button_xpath"`
	CardSelector      string        `mapstructure:"card_selector"`
	PageTimeout       time.Duration `mapstructure:"page_timeout"`
	ScrollPause       time.Duration `mapstructure:"scroll_pause"`
	ScrollSettle      time.Duration `mapstructure:"scroll_settle"`
	MaxScrolls        int           `mapstructure:"max_scrolls"`
	OutputFile        string        `mapstructure:"output_file"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	Database     int    `mapstructure:"database"`
	ArchiveLimit int64  `mapstructure:"archive_limit"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load loads config.yaml from the working directory with environment variable
// overrides. A missing file is not an error: defaults cover every key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile loads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config.yaml found, using defaults")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.BigBasket.NavigationsPerMinute <= 0 {
		return fmt.Errorf("bigbasket.navigations_per_minute must be positive, got %d", c.BigBasket.NavigationsPerMinute)
	}
	if c.Browser.PollInterval <= 0 {
		return fmt.Errorf("browser.poll_interval must be positive, got %s", c.Browser.PollInterval)
	}
	if c.Browser.QuietPeriod < 0 {
		return fmt.Errorf("browser.quiet_period must not be negative, got %s", c.Browser.QuietPeriod)
	}
	if c.BigBasket.OutputFile == "" || c.Grab.OutputFile == "" {
		return fmt.Errorf("output files must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.proxies", []string{})
	v.SetDefault("browser.proxy_test_url", "https://www.bigbasket.com/")
	v.SetDefault("browser.poll_interval", 250*time.Millisecond)
	v.SetDefault("browser.quiet_period", 2*time.Second)

	v.SetDefault("bigbasket.base_url", "https://www.bigbasket.com")
	v.SetDefault("bigbasket.city_url_prefix", "https://www.bigbasket.com/auth/get_page_data/")
	v.SetDefault("bigbasket.menu_url_prefix", "https://www.bigbasket.com/auth/get_menu/")
	v.SetDefault("bigbasket.products_url_prefix", "https://www.bigbasket.com/custompage/sysgenpd/")
	v.SetDefault("bigbasket.page_timeout", 10*time.Second)
	v.SetDefault("bigbasket.navigations_per_minute", 30)
	v.SetDefault("bigbasket.output_file", "Big-Basket-Data.csv")

	v.SetDefault("grab.home_url", "https://food.grab.com/ph/en/")
	v.SetDefault("grab.search_url_prefix", "https://portal.grab.com/foodweb/v2/search")
	v.SetDefault("grab.location", "30th St corner 5th Ave., Bonifacio Global City, Fort Bonifacio, Taguig City, Metro Manila, 1634, National Capital Region (Ncr), Philippines")
	v.SetDefault("grab.location_selector", "#location-input")
	v.SetDefault("grab.search_button_xpath", `//*[@id="page-content"]/div[3]/div/button`)
	v.SetDefault("grab.card_selector", `a[href*="/restaurant/"]`)
	v.SetDefault("grab.page_timeout", 10*time.Second)
	v.SetDefault("grab.scroll_pause", 3*time.Second)
	v.SetDefault("grab.scroll_settle", 2*time.Second)
	v.SetDefault("grab.max_scrolls", 200)
	v.SetDefault("grab.output_file", "Restaurant-Latitude&Longitude.csv")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "scraper")
	v.SetDefault("database.user", "scraper_user")
	v.SetDefault("database.password", "scraper_pass")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.archive_limit", 10000)
}
