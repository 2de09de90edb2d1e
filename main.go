package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"medcounsel-backend/config"
	"medcounsel-backend/conn"
	"medcounsel-backend/counseling"
	"medcounsel-backend/druginfo"
	"medcounsel-backend/migrations"
	"medcounsel-backend/openai"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	rules, err := druginfo.LoadRuleStore(cfg.RulesDir, log)
	if err != nil {
		log.WithError(err).Fatal("could not load drug rule tables")
	}
	engine := druginfo.NewEngine(rules, log)

	if cfg.DBPersistence {
		db, err := conn.NewMySQL()
		if err != nil {
			log.WithError(err).Warn("db persistence requested but unavailable, continuing with files only")
		} else if err := migrations.Run(db); err != nil {
			log.WithError(err).Warn("db migration failed, continuing with files only")
		} else {
			counseling.SetPersistDB(db)
		}
	}

	ai := openai.NewClient(cfg, log)
	store := counseling.NewStore(cfg.CounselingDir, log)
	svc := counseling.NewService(store, ai, cfg.VoicesDir, log)
	handler := counseling.NewHandler(svc, engine, ai, log)

	r := gin.Default()
	r.Use(cors())
	r.Use(requestID())

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/", health)
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/voices", cfg.VoicesDir)

	handler.RegisterRoutes(r)

	addr := cfg.Address + ":" + cfg.Port
	log.WithField("addr", addr).Info("starting counseling service")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// cors mirrors the permissive policy of the original deployment; the mobile
// frontend is served from a different origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
