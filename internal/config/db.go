package config

import "os"

// DBConfig holds the MySQL settings of the checkout audit log.  The audit
// log is optional: with DB_ENABLED unset no connection is opened.
type DBConfig struct {
    Enabled bool
    User    string
    Pass    string
    Host    string
    Port    string
    Name    string
}

func LoadDBConfig() DBConfig {
    return DBConfig{
        Enabled: envBool("DB_ENABLED", false),
        User:    envStr("DB_USER", "root"),
        Pass:    os.Getenv("DB_PASS"),
        Host:    envStr("DB_HOST", "localhost"),
        Port:    envStr("DB_PORT", "3306"),
        Name:    envStr("DB_NAME", "storefront"),
    }
}
