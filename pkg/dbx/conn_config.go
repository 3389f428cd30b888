package dbx

import (
	"fmt"
	"time"
)

// ConnConfig represents the configuration required for a database connection.
type ConnConfig struct {
	// VpcDirectConnection connects through Host:Port even outside the local environment.
	VpcDirectConnection bool          `mapstructure:"vpcDirectConnection"`
	Host                string        `mapstructure:"host" validate:"required"`
	Port                int32         `mapstructure:"port" validate:"gte=0,lte=65535"`
	DBName              string        `mapstructure:"name" validate:"required"`
	User                string        `mapstructure:"user" validate:"required"`
	Password            string        `mapstructure:"password" validate:"required"`
	SSLMode             string        `mapstructure:"sslMode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ApplicationName     string        `mapstructure:"applicationName"`
	ConnectTimeout      time.Duration `mapstructure:"connectTimeout"`
	IsLocalEnv          bool          `mapstructure:"isLocalEnv"`
}

// String - connection description without the password.
func (c ConnConfig) String() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s", c.User, c.Host, c.Port, c.DBName)
}
