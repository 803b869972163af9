package flags

import (
	"github.com/spf13/pflag"
)

// APIFlags holds configuration information for the studio API server.
type APIFlags struct {
	ListenAddr  string
	MetricsAddr string
}

func NewAPIFlags() *APIFlags {
	return &APIFlags{
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
	}
}

func (f *APIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the studio API on (default :8080)")
	fs.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on (default :2112)")
}
