package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultGoldAPIURL      = "https://edge-api.pnj.io/ecom-frontend/v1/get-gold-price"
	DefaultGoldZone        = "00"
	DefaultCSVPath         = "./data/gold_price.csv"
	DefaultTZOffsetHours   = 7
	DefaultPriceKeyField   = "masp"
	DefaultLockTTL         = 30 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
)
