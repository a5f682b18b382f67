package cmd

import (
	"context"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	globalConfig "github.com/zapdesk/zapdesk/config"
	coreConfig "github.com/zapdesk/zapdesk/core/config"
	coreDB "github.com/zapdesk/zapdesk/core/database"
	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	domainContact "github.com/zapdesk/zapdesk/domains/contact"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	domainQuickReply "github.com/zapdesk/zapdesk/domains/quickreply"
	domainReport "github.com/zapdesk/zapdesk/domains/report"
	domainSend "github.com/zapdesk/zapdesk/domains/send"
	domainSetting "github.com/zapdesk/zapdesk/domains/setting"
	domainUser "github.com/zapdesk/zapdesk/domains/user"
	domainWorkflow "github.com/zapdesk/zapdesk/domains/workflow"
	"github.com/zapdesk/zapdesk/inbox"
	"github.com/zapdesk/zapdesk/infrastructure/evolution"
	"github.com/zapdesk/zapdesk/pkg/msgworker"
	"github.com/zapdesk/zapdesk/pkg/utils"
	"github.com/zapdesk/zapdesk/repository"
	uiWebsocket "github.com/zapdesk/zapdesk/ui/websocket"
	"github.com/zapdesk/zapdesk/usecase"
)

var (
	// Usecases
	chatUsecase       domainChat.IChatUsecase
	sendUsecase       domainSend.ISendUsecase
	contactUsecase    domainContact.IContactUsecase
	departmentUsecase domainDepartment.IDepartmentUsecase
	quickReplyUsecase domainQuickReply.IQuickReplyUsecase
	workflowUsecase   domainWorkflow.IWorkflowUsecase
	userUsecase       domainUser.IUserUsecase
	reportUsecase     domainReport.IReportUsecase
	settingUsecase    domainSetting.ISettingUsecase

	// Ingestion pipeline
	chatStore     *inbox.Store
	poller        *inbox.Poller
	eventStream   *evolution.EventStream
	eventConsumer *inbox.EventConsumer
	eventPool     *msgworker.EventWorkerPool

	appCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "zapdesk",
	Short: "Multi-tenant WhatsApp customer service console",
	Long: `Zapdesk consolidates WhatsApp conversations from an Evolution API
gateway into a unified agent console with department routing, quick replies
and auto-reply workflows.`,
}

func init() {
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

// initEnvConfig maps environment overrides onto the flag-backed defaults.
func initEnvConfig() {
	if envPort := viper.GetString("app_port"); envPort != "" {
		globalConfig.AppPort = envPort
	}
	if envDebug := viper.GetBool("app_debug"); envDebug {
		globalConfig.AppDebug = envDebug
	}
	if envBasicAuth := viper.GetString("app_basic_auth"); envBasicAuth != "" {
		globalConfig.AppBasicAuthCredential = strings.Split(envBasicAuth, ",")
	}
	if envBasePath := viper.GetString("app_base_path"); envBasePath != "" {
		globalConfig.AppBasePath = envBasePath
	}
	if envTrustedProxies := viper.GetString("app_trusted_proxies"); envTrustedProxies != "" {
		globalConfig.AppTrustedProxies = strings.Split(envTrustedProxies, ",")
	}

	if envBaseURL := viper.GetString("evolution_base_url"); envBaseURL != "" {
		globalConfig.EvolutionBaseURL = envBaseURL
	}
	if envAPIKey := viper.GetString("evolution_api_key"); envAPIKey != "" {
		globalConfig.EvolutionAPIKey = envAPIKey
	}
	if envInstance := viper.GetString("evolution_instance"); envInstance != "" {
		globalConfig.EvolutionInstance = envInstance
	}
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppPort,
		"port", "p",
		globalConfig.AppPort,
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&globalConfig.AppDebug,
		"debug", "d",
		globalConfig.AppDebug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&globalConfig.AppBasicAuthCredential,
		"basic-auth", "b",
		globalConfig.AppBasicAuthCredential,
		"basic auth credential | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppBasePath,
		"base-path", "",
		globalConfig.AppBasePath,
		`base path for subpath deployment --base-path <string> | example: --base-path="/console"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.EvolutionBaseURL,
		"evolution-url", "",
		globalConfig.EvolutionBaseURL,
		`evolution gateway base url --evolution-url <string> | example: --evolution-url="http://localhost:8080"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.EvolutionInstance,
		"evolution-instance", "",
		globalConfig.EvolutionInstance,
		`evolution gateway instance name --evolution-instance <string>`,
	)
}

func initApp() {
	if globalConfig.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := coreConfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("[INIT] Failed to load configuration: %v", err)
	}
	// Flags win over environment defaults.
	cfg.App.Port = globalConfig.AppPort
	cfg.App.Debug = globalConfig.AppDebug
	if len(globalConfig.AppBasicAuthCredential) > 0 {
		cfg.App.BasicAuth = globalConfig.AppBasicAuthCredential
	}
	cfg.App.BasePath = globalConfig.AppBasePath
	if len(globalConfig.AppTrustedProxies) > 0 {
		cfg.App.TrustedProxies = globalConfig.AppTrustedProxies
	}
	cfg.Evolution.BaseURL = globalConfig.EvolutionBaseURL
	cfg.Evolution.Instance = globalConfig.EvolutionInstance
	if globalConfig.EvolutionAPIKey != "" {
		cfg.Evolution.APIKey = globalConfig.EvolutionAPIKey
	}

	if err := utils.CreateFolder(cfg.Paths.Storages, cfg.Paths.Media); err != nil {
		logrus.Fatalf("[INIT] Failed to create storage folders: %v", err)
	}

	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[INIT] Failed to connect database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	appCancel = cancel

	// Repositories
	chatRepo := repository.NewChatGormRepository(db)
	contactRepo := repository.NewContactGormRepository(db)
	departmentRepo := repository.NewDepartmentGormRepository(db)
	quickReplyRepo := repository.NewQuickReplyGormRepository(db)
	workflowRepo := repository.NewWorkflowGormRepository(db)
	userRepo := repository.NewUserGormRepository(db)
	settingRepo := repository.NewSettingGormRepository(db)
	for name, initFn := range map[string]func(context.Context) error{
		"chats":         chatRepo.InitSchema,
		"contacts":      contactRepo.InitSchema,
		"departments":   departmentRepo.InitSchema,
		"quick_replies": quickReplyRepo.InitSchema,
		"workflows":     workflowRepo.InitSchema,
		"users":         userRepo.InitSchema,
		"settings":      settingRepo.InitSchema,
	} {
		if err := initFn(ctx); err != nil {
			logrus.Fatalf("[INIT] Failed to migrate %s schema: %v", name, err)
		}
	}

	// Gateway client and push stream
	evoClient := evolution.NewClient(cfg.Evolution.BaseURL, cfg.Evolution.APIKey, cfg.Evolution.Instance)
	socketURL := cfg.Evolution.SocketURL
	if socketURL == "" {
		socketURL = deriveSocketURL(cfg.Evolution.BaseURL, cfg.Evolution.Instance)
	}
	eventStream = evolution.NewEventStream(socketURL, cfg.Evolution.APIKey, evolution.BackoffConfig{
		Base:        cfg.Inbox.BackoffBase,
		Ceiling:     cfg.Inbox.BackoffCeiling,
		MaxAttempts: cfg.Inbox.MaxReconnects,
	})

	// Reconciled chat collection
	workflowUsecase = usecase.NewWorkflowService(workflowRepo)
	mergeOpts := reconcileOptions(cfg)
	chatStore = inbox.NewStore(mergeOpts, cfg.Inbox.FetchThrottle, inbox.StoreDeps{
		Sender:      evoClient,
		Departments: departmentRepo,
		Workflows:   workflowUsecase,
		Repo:        chatRepo,
		Broadcast:   uiWebsocket.Publish,
	})
	if err := chatStore.Load(ctx); err != nil {
		logrus.Warnf("[INIT] Could not warm chat store from storage: %v", err)
	}

	// Ingestion pipeline
	eventPool = msgworker.NewEventWorkerPool(cfg.Pool.Size, cfg.Pool.QueueSize)
	eventPool.Start(ctx)
	poller = inbox.NewPoller(evoClient, chatStore, cfg.Inbox.PollInterval, cfg.Inbox.MessageFetchLimit)
	eventConsumer = inbox.NewEventConsumer(eventStream, eventPool, chatStore)

	eventStream.Start(ctx)
	go poller.Run(ctx)
	go eventConsumer.Run(ctx)

	// Usecases
	chatUsecase = usecase.NewChatService(chatStore, evoClient)
	sendUsecase = usecase.NewSendService(usecase.SendDeps{
		Store:       chatStore,
		Client:      evoClient,
		Departments: departmentRepo,
		MediaDir:    cfg.Paths.Media,
		MediaBase:   mediaBaseURL(cfg),
	})
	contactUsecase = usecase.NewContactService(contactRepo)
	departmentUsecase = usecase.NewDepartmentService(departmentRepo, chatRepo, userRepo, chatStore)
	quickReplyUsecase = usecase.NewQuickReplyService(quickReplyRepo)
	userUsecase = usecase.NewUserService(userRepo)
	reportUsecase = usecase.NewReportService(chatStore, departmentRepo)
	settingUsecase = usecase.NewSettingService(settingRepo)

	logrus.Infof("[INIT] Application initialized, gateway %s instance %s", cfg.Evolution.BaseURL, evoClient.Instance())
}

// StopApp shuts the ingestion pipeline down in dependency order.
func StopApp() {
	if eventStream != nil {
		eventStream.Close()
	}
	if appCancel != nil {
		appCancel()
	}
	if eventPool != nil {
		eventPool.Stop()
	}
	logrus.Info("[SHUTDOWN] Application subsystems stopped")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
