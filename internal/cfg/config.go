package cfg

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	SideMapping      string
	Granularity      string
	ReferenceAccount string
	PriceScale       float64
	ArchivePath      string
	AllowedOrigins   []string
	Dev              bool
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		Granularity: "PREFIX",
		PriceScale:  1,
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and the
// environment. Priority: ENV > .env file > defaults. APURADOR_SIDE_MAPPING
// has no default on purpose; the caller must fail when it is empty.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("APURADOR_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	cfg.SideMapping = os.Getenv("APURADOR_SIDE_MAPPING")
	if g := os.Getenv("APURADOR_GRANULARITY"); g != "" {
		cfg.Granularity = g
	}
	cfg.ReferenceAccount = os.Getenv("APURADOR_REFERENCE_ACCOUNT")

	if scale := os.Getenv("APURADOR_PRICE_SCALE"); scale != "" {
		if v, err := strconv.ParseFloat(scale, 64); err == nil && v > 0 {
			cfg.PriceScale = v
		}
	}

	cfg.ArchivePath = os.Getenv("APURADOR_ARCHIVE_PATH")

	if origins := os.Getenv("APURADOR_ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if dev := os.Getenv("APURADOR_DEV"); dev != "" {
		cfg.Dev = dev == "true" || dev == "1"
	}

	return cfg
}
