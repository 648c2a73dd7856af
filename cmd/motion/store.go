package main

import (
	"fmt"
	"os"

	"github.com/aretw0/motion/pkg/adapters/file"
	"github.com/aretw0/motion/pkg/adapters/memory"
	"github.com/aretw0/motion/pkg/adapters/redis"
	"github.com/aretw0/motion/pkg/persistence/middleware"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/spf13/cobra"
)

// backend is the frame store selected on the command line.
type backend struct {
	store  ports.FrameStore
	locker ports.DistributedLocker
	close  func() error
}

type storeFlags struct {
	kind     string
	dir      string
	address  string
	password string
	db       int
	key      string
}

// keyEnv holds the frame encryption key when --encryption-key is not given.
const keyEnv = "MOTION_ENCRYPTION_KEY"

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "memory", "Frame store: memory, file or redis")
	cmd.Flags().String("dir", ".motion/frames", "Directory of the file store")
	cmd.Flags().String("redis", "localhost:6379", "Address of the redis store")
	cmd.Flags().String("redis-password", "", "Password of the redis store")
	cmd.Flags().Int("redis-db", 0, "Database of the redis store")
	cmd.Flags().String("encryption-key", "", "Base64 AES-256 key sealing stored frames (default $"+keyEnv+")")
}

func readStoreFlags(cmd *cobra.Command) storeFlags {
	var f storeFlags
	f.kind, _ = cmd.Flags().GetString("store")
	f.dir, _ = cmd.Flags().GetString("dir")
	f.address, _ = cmd.Flags().GetString("redis")
	f.password, _ = cmd.Flags().GetString("redis-password")
	f.db, _ = cmd.Flags().GetInt("redis-db")
	f.key, _ = cmd.Flags().GetString("encryption-key")
	if f.key == "" {
		f.key = os.Getenv(keyEnv)
	}
	return f
}

// openBackend builds the store, sealed when a key is given. The redis store
// also provides a distributed locker so that several servers can share
// sessions.
func openBackend(f storeFlags) (*backend, error) {
	be, err := openStore(f)
	if err != nil || f.key == "" {
		return be, err
	}
	key, err := middleware.ParseKey(f.key)
	if err != nil {
		return nil, err
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		return nil, err
	}
	be.store = seal(be.store)
	return be, nil
}

func openStore(f storeFlags) (*backend, error) {
	noop := func() error { return nil }
	switch f.kind {
	case "", "memory":
		return &backend{store: memory.NewStore(), close: noop}, nil
	case "file":
		return &backend{store: file.New(f.dir), close: noop}, nil
	case "redis":
		store := redis.New(f.address, f.password, f.db)
		return &backend{
			store:  store,
			locker: redis.NewLocker(store.Client(), redis.DefaultPrefix),
			close:  store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store %q. Supported: memory, file, redis", f.kind)
	}
}
