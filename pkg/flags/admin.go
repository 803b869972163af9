package flags

import (
	"os"

	"github.com/spf13/pflag"
)

// AdminFlags holds the shared secret gating the admin endpoints. When
// empty, admin auth and CRUD are refused.
type AdminFlags struct {
	Password string
}

func NewAdminFlags() *AdminFlags {
	return &AdminFlags{}
}

func (f *AdminFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Password,
		"admin-password",
		os.Getenv("ADMIN_PASSWORD"),
		"Password for the gallery admin endpoints")
}
