package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Roulette/internal/adapters/rtc"
	"github.com/dkeye/Roulette/internal/adapters/signal"
	"github.com/dkeye/Roulette/internal/app"
	"github.com/dkeye/Roulette/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const visitorKey = "visitor"

// VisitorMiddleware keeps an anonymous visitor token in the cookie session.
// It only labels logs; pairing is keyed by connection, never by visitor.
func VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(visitorKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(visitorKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save visitor session")
			}
		}
		c.Set(visitorKey, token)
		c.Next()
	}
}

// SignalOptions maps the transport settings of cfg onto the signal controller.
func SignalOptions(cfg *config.Config) signal.Options {
	return signal.Options{
		ReadLimit:       cfg.ReadLimit,
		PingPeriod:      cfg.PingPeriod,
		SendBuffer:      cfg.SendBuffer,
		QueueRateLimit:  cfg.QueueRateLimit,
		QueueRateWindow: cfg.QueueRateWindow,
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	broker *app.Broker,
	ctrl *signal.SignalWSController,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24, HttpOnly: true, Secure: cfg.Mode == "release"})
	r.Use(sessions.Sessions("RouletteSessions", store))
	r.Use(VisitorMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ice := rtc.Configuration(cfg.ICEServers)

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str(visitorKey, c.GetString(visitorKey)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	// GET /api/ice: ICE servers for the browser's peer connection
	api.GET("/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": ice.ICEServers})
	})

	// GET /api/stats: pool and pairing counts
	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, broker.Stats())
	})

	return r
}
