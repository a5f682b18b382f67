package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	coreConfig "github.com/zapdesk/zapdesk/core/config"
	"github.com/zapdesk/zapdesk/ui/rest"
	"github.com/zapdesk/zapdesk/ui/rest/middleware"
	"github.com/zapdesk/zapdesk/ui/websocket"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the customer service console API over http",
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := coreConfig.Global

	fiberConfig := fiber.Config{
		EnableTrustedProxyCheck: true,
		BodyLimit:               50 * 1024 * 1024,
		Network:                 "tcp",
		AppName:                 "Zapdesk Console",
		ServerHeader:            "Hidden",
	}
	if len(cfg.App.TrustedProxies) > 0 {
		fiberConfig.TrustedProxies = cfg.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedHost
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CorsAllowedOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	if len(cfg.App.BasicAuth) == 0 {
		logrus.Fatalln("APP_BASIC_AUTH is required. Please set APP_BASIC_AUTH=<user>:<secret>[,<user2>:<secret2>] and restart.")
	}
	account := make(map[string]string)
	for _, basicAuth := range cfg.App.BasicAuth {
		ba := strings.Split(basicAuth, ":")
		if len(ba) != 2 {
			logrus.Fatalln("Basic auth is not valid, please use the format <user>:<secret>")
		}
		account[ba[0]] = ba[1]
	}

	// Uploaded media is served publicly; the gateway fetches outbound media
	// from here.
	app.Static(cfg.App.BasePath+"/statics", "./statics")

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	apiGroup.Use(basicauth.New(basicauth.Config{
		Users: account,
		Next: func(c *fiber.Ctx) bool {
			// Allow CORS preflight without credentials.
			return c.Method() == fiber.MethodOptions
		},
	}))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Termination signal received, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		StopApp()
	}()

	rest.InitRestChat(apiGroup, chatUsecase)
	rest.InitRestSend(apiGroup, sendUsecase)
	rest.InitRestContact(apiGroup, contactUsecase)
	rest.InitRestDepartment(apiGroup, departmentUsecase)
	rest.InitRestQuickReply(apiGroup, quickReplyUsecase)
	rest.InitRestWorkflow(apiGroup, workflowUsecase)
	rest.InitRestUser(apiGroup, userUsecase)
	rest.InitRestReport(apiGroup, reportUsecase)
	rest.InitRestSetting(apiGroup, settingUsecase)
	rest.InitRestMonitoring(apiGroup, eventPool)

	websocket.RegisterRoutes(apiGroup, chatUsecase)
	go websocket.RunHub()

	apiGroup.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API Endpoint not found",
			"path":  c.Path(),
		})
	})

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
}
