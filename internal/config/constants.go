package config

const (
	DefaultDatabasePath = "./catalog.db"
)
