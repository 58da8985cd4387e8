// Command mockapi runs the in-memory LMS API server used for local
// development of the client.
package main

import (
	"flag"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/logger"
	"github.com/campussync/campussync/internal/mockapi"
)

func main() {
	var (
		addr   string
		secret string
		level  string
	)
	flag.StringVar(&addr, "a", "localhost:8080", "listen address (ip:port)")
	flag.StringVar(&secret, "secret", "campussync-dev-secret", "JWT signing secret")
	flag.StringVar(&level, "log", "info", "log level")
	flag.Parse()

	zl, err := logger.New(level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	srv := mockapi.New(secret, zl)
	zl.Info("starting mock LMS API", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
