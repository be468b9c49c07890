package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerniceZTT/breezy_end/config"
	"github.com/BerniceZTT/breezy_end/dashboard"
	"github.com/BerniceZTT/breezy_end/middleware"
	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/repository"
	"github.com/BerniceZTT/breezy_end/routes"
	"github.com/BerniceZTT/breezy_end/service"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "breezy",
		Short:         "Breezy HubSpot + Gemini proxy",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "models",
		Short: "List the AI models available to the configured key",
		RunE:  runModels,
	})
	root.AddCommand(&cobra.Command{
		Use:   "ping [prompt]",
		Short: "Send a liveness prompt to the AI provider",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPing,
	})
	root.AddCommand(dashboardCmd())
	return root
}

// bootstrap 加载配置、初始化日志与上游客户端
func bootstrap(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.InitLogger("info", "console")
		var missing *config.MissingEnvError
		if errors.As(err, &missing) {
			utils.Logger.Error().Str("variable", missing.Name).Msg(missing.Error())
		} else {
			utils.LogError(err, nil, "加载配置失败")
		}
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	repository.InitHubSpot(cfg)

	gen, err := service.NewGenerator(ctx, cfg)
	if err != nil {
		utils.LogError(err, map[string]interface{}{"provider": cfg.AIProvider}, "初始化AI服务失败")
		return nil, err
	}
	service.InitAI(gen)
	utils.Logger.Info().Str("provider", cfg.AIProvider).Str("model", gen.Model()).Msg("已初始化AI服务")
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	// 设置Gin模式
	if cfg.Debug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin实例
	router := gin.New()

	// 应用中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware())

	// 注册路由
	routes.RegisterRoutes(router, cfg)

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	serveErr := make(chan error, 1)
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		utils.LogError(err, nil, "启动服务器失败")
		return err
	case <-quit:
	}
	utils.Logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError(err, nil, "服务器关闭异常")
		return err
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
	return nil
}

func runModels(cmd *cobra.Command, args []string) error {
	if _, err := bootstrap(cmd.Context()); err != nil {
		return err
	}
	list, err := service.AI().ListModels(cmd.Context())
	if err != nil {
		if service.IsUnsupported(err) {
			fmt.Fprintln(cmd.OutOrStdout(), err.Error())
			return nil
		}
		return err
	}
	for _, m := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%-50s %s\n", m.Name, m.DisplayName)
	}
	return nil
}

func runPing(cmd *cobra.Command, args []string) error {
	if _, err := bootstrap(cmd.Context()); err != nil {
		return err
	}
	prompt := service.LivenessPrompt
	if len(args) == 1 {
		prompt = args[0]
	}
	reply, err := service.AI().Ping(cmd.Context(), prompt)
	if err != nil {
		utils.LogError(err, map[string]interface{}{"model": service.AI().Model()}, "AI服务无响应")
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", service.AI().Model(), reply)
	return nil
}

func dashboardCmd() *cobra.Command {
	var (
		apiURL    string
		contactID string
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the subscription dashboard from a running proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := dashboard.New(dashboard.NewClient(apiURL))
			out := cmd.OutOrStdout()

			contacts, err := d.LoadContacts(ctx)
			if err != nil {
				return err
			}
			deals, err := d.LoadAllDeals(ctx)
			if err != nil {
				return err
			}
			status, statusErr := d.CheckAI(ctx)

			if contactID == "" {
				fmt.Fprint(out, dashboard.RenderOverview(contacts, deals, status, statusErr))
				return nil
			}

			contactDeals, err := d.SelectContact(ctx, contactID)
			if err != nil {
				return err
			}
			sub, err := d.Subscriptions(ctx, contactID)
			if err != nil {
				return err
			}
			var analysis *models.CustomerAnalysis
			if statusErr == nil {
				analysis, err = d.AnalyseCustomer(ctx, contactID)
				if err != nil {
					utils.Logger.Warn().Err(err).Str("contactId", contactID).Msg("客户分析失败")
				}
			}
			fmt.Fprint(out, dashboard.RenderContact(sub, contactDeals, analysis))
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", dashboard.DefaultAPIURL, "proxy API base URL")
	cmd.Flags().StringVar(&contactID, "contact", "", "render a single contact")
	return cmd
}
