package store

import (
	"context"
	"fmt"
)

// Open selects a backend. namespace prefixes redis keys and names the
// mongo database; the SQL backends ignore it.
func Open(ctx context.Context, driver Driver, dsn, namespace string) (KV, error) {
	var (
		kv  KV
		err error
	)

	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
		var s *SQLStore
		if s, err = OpenSQL(ctx, driver, dsn); err == nil {
			kv = s
		}
	case DriverRedis:
		var s *RedisStore
		if s, err = OpenRedis(ctx, dsn, namespace); err == nil {
			kv = s
		}
	case DriverMongo:
		var s *MongoStore
		if s, err = OpenMongo(ctx, dsn, namespace); err == nil {
			kv = s
		}
	case DriverMemory:
		kv = NewMemory()
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return kv, nil
}
