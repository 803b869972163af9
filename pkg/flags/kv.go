package flags

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/young-creators/studio/pkg/kv"
	"github.com/young-creators/studio/pkg/kv/redis"
)

// KVFlags holds gallery storage configuration.
type KVFlags struct {
	RedisURL string
}

func NewKVFlags() *KVFlags {
	return &KVFlags{}
}

func (f *KVFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RedisURL,
		"redis-url",
		os.Getenv("REDIS_URL"),
		"Redis URL for gallery storage")
}

// GetKVStore returns the redis-backed store when a URL is configured,
// otherwise an in-memory store. The in-memory store loses everything on
// restart, so it only makes sense for local development.
func (f *KVFlags) GetKVStore() (kv.Store, error) {
	if f.RedisURL != "" {
		return redis.NewRedisStore(f.RedisURL)
	}

	log.Warning("no redis URL configured, gallery contents will not survive a restart")
	return kv.NewMemoryStore(), nil
}
