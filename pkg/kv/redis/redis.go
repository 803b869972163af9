package redis

import (
	"time"

	r "gopkg.in/redis.v5"

	"github.com/young-creators/studio/pkg/kv"
)

type Store struct {
	client *r.Client
}

func NewRedisStore(url string) (*Store, error) {
	var opts *r.Options
	var err error

	if opts, err = r.ParseURL(url); err != nil {
		return nil, err
	}

	return &Store{
		client: r.NewClient(opts),
	}, nil
}

func (s Store) Get(key string) ([]byte, error) {
	res, err := s.client.Get(key).Bytes()
	if err == r.Nil {
		return nil, kv.ErrNotFound
	}
	return res, err
}

func (s Store) Set(key string, value []byte, duration time.Duration) error {
	return s.client.Set(key, value, duration).Err()
}

func (s Store) Del(key string) error {
	return s.client.Del(key).Err()
}

func (s Store) ListPush(key, value string) error {
	return s.client.LPush(key, value).Err()
}

func (s Store) ListRange(key string, start, stop int64) ([]string, error) {
	return s.client.LRange(key, start, stop).Result()
}

func (s Store) ListRem(key, value string) error {
	return s.client.LRem(key, 0, value).Err()
}
