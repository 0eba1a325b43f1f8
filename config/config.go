package config

import "time"

type Config struct {
	API     API
	Storage Storage
	Log     Log
}

type API struct {
	BaseURL string        `conf:"default:https://api.engpro.vn"`
	Timeout time.Duration `conf:"default:15s"`
	RPS     float64       `conf:"default:10"`
	Burst   int           `conf:"default:5"`
}

type Storage struct {
	Dir string `conf:"default:.engpro"`
}

type Log struct {
	Level string `conf:"default:info"`
}
