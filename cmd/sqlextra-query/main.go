package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"github.com/shrek82/sqlextra/core"
	"github.com/shrek82/sqlextra/logger"
)

var (
	driverName = flag.String("driver", "sqlite3", "database driver (sqlite3, mysql, postgres)")
	dsn        = flag.String("dsn", "", "database connection string (DSN)")
	sqlText    = flag.String("sql", "", "statement to execute")
	configPath = flag.String("config", "", "optional config file (flags override its values)")
	minTime    = flag.Duration("min-time", 0, "only log statements slower than this")
	redisAddr  = flag.String("redis-addr", "", "ship the statement log to this Redis server instead of stderr")
	redisKey   = flag.String("redis-key", "sqlextra:log", "Redis list key for shipped log entries")
)

func main() {
	log.SetFlags(log.LstdFlags)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg.merge(set, *driverName, *dsn, *sqlText, *minTime, *redisAddr, *redisKey)

	if cfg.DSN == "" || cfg.SQL == "" {
		fmt.Println("usage: sqlextra-query -dsn <dsn> -sql <statement> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	conn, err := core.OpenMinTimeLogging(cfg.Driver, cfg.DSN, nil)
	if err != nil {
		log.Fatalf("open %s database: %v", cfg.Driver, err)
	}
	defer conn.Close()

	sink, cleanup, err := buildSink(cfg)
	if err != nil {
		log.Fatalf("log sink: %v", err)
	}
	defer cleanup()

	if err := conn.Initialize(sink, cfg.MinTime); err != nil {
		log.Fatalf("initialize logging: %v", err)
	}

	cur, err := conn.LoggingIndexedCursor()
	if err != nil {
		log.Fatalf("cursor: %v", err)
	}
	defer cur.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cur.Execute(ctx, cfg.SQL); err != nil {
		log.Fatalf("execute: %v", err)
	}

	if cur.Description() == nil {
		fmt.Printf("OK, %d row(s) affected\n", cur.RowsAffected())
		return
	}

	rows, err := cur.FetchAll()
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}
	for i, row := range rows {
		fmt.Printf("row %d:\n", i)
		for _, item := range row.Items() {
			fmt.Printf("  %s = %v\n", item.Name, item.Value)
		}
	}
	fmt.Printf("%d row(s)\n", len(rows))
}

// buildSink picks the log destination: a Redis list when an address is
// configured, stderr otherwise.
func buildSink(cfg *config) (any, func(), error) {
	if cfg.Redis.Addr == "" {
		return os.Stderr, func() {}, nil
	}
	sink := logger.NewRedisSink(&redis.Options{Addr: cfg.Redis.Addr}, cfg.Redis.Key)
	if err := sink.Ping(); err != nil {
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
	}
	return sink, func() { sink.Close() }, nil
}
