package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"certledger/internal/auth"
	"certledger/internal/certify"
	"certledger/internal/config"
	"certledger/internal/db"
	"certledger/internal/handlers"
	"certledger/internal/institutions"
	"certledger/internal/ipfs"
	"certledger/internal/ledger"
	"certledger/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error: ", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("(SUCCESS): connected to database successfully")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL: ", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	ldg, err := ledger.Dial(ctx, cfg.NodeURL, cfg.DeploymentConfigPath, cfg.LedgerPrivateKey, cfg.LedgerConfirmTimeout)
	if err != nil {
		log.Fatal("ledger connection failed: ", err)
	}
	defer ldg.Close()
	fmt.Println("(SUCCESS): connected to ledger node, contract at", ldg.ContractAddress())

	directory := institutions.NewDirectory(gdb)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	refresh := auth.NewRefreshStore(rdb, cfg.RefreshTokenTTL)
	store := ipfs.NewClient(cfg.PinataAPIKey, cfg.PinataAPISecret)
	svc := certify.NewService(directory, store, ldg, cfg.WorkDir)

	handler := router.RegisterRouter(router.Deps{
		Institutions:    handlers.NewInstitutionHandler(directory, tokens, refresh),
		Certificates:    handlers.NewCertificateHandler(svc),
		QRCodes:         handlers.NewQRCodeHandler(cfg.VerifyBaseURL),
		Tokens:          tokens,
		ContractAddress: ldg.ContractAddress(),
	})

	log.Println("listening on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal(err)
	}
}
