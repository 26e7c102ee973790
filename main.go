// @title Study Tracker API
// @version 1.0
// @description 学习打卡服务：注册、打卡、学习摘要和每日激励提醒。

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

package main

import (
	"context"
	"fmt"
	"os"
	"study_tracker/internal/app"
	"study_tracker/internal/config"
	"study_tracker/internal/model"
	"study_tracker/pkg/database"
	"study_tracker/pkg/logger"
	"time"

	"github.com/spf13/cobra"
)

var (
	// 配置目录，包含 config.yaml
	configDir string
	// remind 命令的目标用户
	remindUserID string
	version      = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "study_tracker",
	Short:   "Study check-in tracker with daily motivational reminders",
	Version: version,
	// 不带子命令时直接启动服务
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")

	remindCmd.Flags().StringVar(&remindUserID, "user", "", "user id to remind")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(migrateCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send one reminder and print the event response",
	Long: `Run the reminder event once for a user and print the JSON envelope.

Examples:
  # Remind a user with the configured generator
  study_tracker remind --user alice

  # Use another config directory
  study_tracker remind --config /etc/study-tracker --user alice`,
	RunE: runRemind,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE:  runMigrate,
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.NewApp(cfg, configDir)
	if err != nil {
		return err
	}

	application.Run()
	return nil
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// 单次执行不需要后台任务
	cfg.Scheduler.Enabled = false

	application, err := app.NewApp(cfg, "")
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	resp := application.HandleReminderEvent(ctx, model.ReminderEvent{UserID: remindUserID})
	fmt.Fprintln(cmd.OutOrStdout(), resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("reminder failed with status %d", resp.StatusCode)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("数据库迁移完成，退出程序")
	return nil
}
