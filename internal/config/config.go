package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrInvalidConfiguration is returned when an environment value cannot be
// parsed into its expected type, e.g. a flag that is not a boolean.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Format holds the number formatting defaults applied to cart totals.
type Format struct {
	Decimals          int
	DecimalPoint      string
	ThousandSeparator string
}

// Config is the immutable cart configuration. It is loaded once in main and
// threaded into the engine at construction.
type Config struct {
	// StoreInDatabase enables the durable tier. When false the cart lives
	// in the session tier only.
	StoreInDatabase bool

	// AllowZeroPrice accepts buyables with a unit price of exactly zero.
	AllowZeroPrice bool

	// DestroyOnLogout wipes the session-tier cart when a principal logs out.
	DestroyOnLogout bool

	// SessionRootKey prefixes every session-tier key ("<root>.<instance>").
	SessionRootKey string

	// AuthGuard is the default guard new cart scopes are bound to.
	AuthGuard string

	// Collection is the durable-tier collection name.
	Collection string

	Format Format
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		StoreInDatabase: true,
		AllowZeroPrice:  false,
		DestroyOnLogout: false,
		SessionRootKey:  "cart",
		AuthGuard:       "web",
		Collection:      "cart",
		Format: Format{
			Decimals:          2,
			DecimalPoint:      ".",
			ThousandSeparator: ",",
		},
	}
}

// Load reads the cart configuration from the environment, falling back to
// Default for anything unset. Flags that are present but not parseable fail
// with ErrInvalidConfiguration.
func Load() (Config, error) {
	cfg := Default()

	var err error
	if cfg.StoreInDatabase, err = getBool("CART_STORE_IN_DATABASE", cfg.StoreInDatabase); err != nil {
		return Config{}, err
	}
	if cfg.AllowZeroPrice, err = getBool("CART_ALLOW_ZERO_PRICE", cfg.AllowZeroPrice); err != nil {
		return Config{}, err
	}
	if cfg.DestroyOnLogout, err = getBool("CART_DESTROY_ON_LOGOUT", cfg.DestroyOnLogout); err != nil {
		return Config{}, err
	}
	if cfg.Format.Decimals, err = getInt("CART_FORMAT_DECIMALS", cfg.Format.Decimals); err != nil {
		return Config{}, err
	}

	cfg.SessionRootKey = getEnv("CART_SESSION_ROOT_KEY", cfg.SessionRootKey)
	cfg.AuthGuard = getEnv("CART_AUTH_GUARD", cfg.AuthGuard)
	cfg.Collection = getEnv("CART_COLLECTION", cfg.Collection)
	cfg.Format.DecimalPoint = getEnv("CART_FORMAT_DECIMAL_POINT", cfg.Format.DecimalPoint)
	cfg.Format.ThousandSeparator = getEnv("CART_FORMAT_THOUSAND_SEPARATOR", cfg.Format.ThousandSeparator)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfiguration, key, value)
	}
	return parsed, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfiguration, key, value)
	}
	return parsed, nil
}
