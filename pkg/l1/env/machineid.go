package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// AppID salts the machine id so the raw id isn't published.
const AppID = "radiopanel"

// MachineID retrieves the unique ID identifying the machine.
// It falls back to the hostname where no machine id is available.
func MachineID() string {
	if id, err := machineid.ProtectedID(AppID); err == nil && len(id) >= 12 {
		return id[:12]
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
