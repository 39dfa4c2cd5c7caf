package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/edusite/edusite/config"
	"github.com/edusite/edusite/database"
	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/web"
	"github.com/edusite/edusite/web/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}
	return cfg
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	level, err := logger.LevelFromConfig(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
	defer logger.CloseLogger()

	server := web.NewServer(loadConfig())
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(loadConfig())
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

// withDB opens the configured database for a one-off CLI command.
func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.InitDB(loadConfig().Database)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)
	return fn(db)
}

func addUser(username, email, password string, role int) {
	err := withDB(func(db *gorm.DB) error {
		user, err := service.NewUserService(db).Create(context.Background(), username, email, password, role)
		if err != nil {
			return err
		}
		fmt.Printf("user %q <%s> created with id %d\n", user.Username, user.Email, user.Id)
		return nil
	})
	if errors.Is(err, service.ErrDuplicateEmail) {
		fmt.Println("add user failed: a user with this email already exists")
		os.Exit(1)
	}
	if err != nil {
		fmt.Println("add user failed:", err)
		os.Exit(1)
	}
}

func setPassword(email, password string) {
	err := withDB(func(db *gorm.DB) error {
		return service.NewUserService(db).SetPassword(context.Background(), email, password)
	})
	if errors.Is(err, service.ErrUnknownEmail) {
		fmt.Println("update password failed: no user with email", email)
		os.Exit(1)
	}
	if err != nil {
		fmt.Println("update password failed:", err)
		os.Exit(1)
	}
	fmt.Println("update password success")
}

func showSetting() {
	cfg := loadConfig()
	fmt.Println("current settings as follows:")
	fmt.Println("version:", config.GetVersion())
	fmt.Println("listen:", cfg.Listen)
	fmt.Println("port:", cfg.Port)
	fmt.Println("database:", cfg.Database.Type)
	if cfg.Database.IsSQLite() {
		fmt.Println("database path:", cfg.Database.SQLite.Path)
	} else {
		fmt.Printf("database host: %s:%d/%s\n", cfg.Database.Postgres.Host, cfg.Database.Postgres.Port, cfg.Database.Postgres.Database)
	}
	fmt.Println("session store:", cfg.SessionStore)
	fmt.Println("session max age (minutes):", cfg.SessionMaxAge)
	fmt.Println("session secret set:", cfg.SessionSecret != "")
	fmt.Println("login rate limit (per minute):", cfg.LoginRateLimit)
	fmt.Println("metrics enabled:", cfg.MetricsEnable)

	err := withDB(func(db *gorm.DB) error {
		user, err := service.NewUserService(db).GetFirstUser(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("first user: %s <%s>\n", user.Username, user.Email)
		return nil
	})
	if errors.Is(err, service.ErrNotFound) {
		fmt.Println("no users yet, create one with: user add")
	} else if err != nil {
		fmt.Println("get first user failed:", err)
	}
}

func main() {
	// a missing .env is fine; the environment may be set another way
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage administrator accounts",
	}

	var addCmd = &cobra.Command{
		Use:   "add",
		Short: "Create an administrator",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetInt("role")
			addUser(username, email, password, role)
		},
	}

	addCmd.Flags().String("username", "", "display name")
	addCmd.Flags().String("email", "", "login email")
	addCmd.Flags().String("password", "", "login password")
	addCmd.Flags().Int("role", 0, "role value, stored only")
	for _, name := range []string{"username", "email", "password"} {
		_ = addCmd.MarkFlagRequired(name)
	}

	var passwdCmd = &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of an administrator",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			setPassword(email, password)
		},
	}

	passwdCmd.Flags().String("email", "", "login email")
	passwdCmd.Flags().String("password", "", "new password")
	_ = passwdCmd.MarkFlagRequired("email")
	_ = passwdCmd.MarkFlagRequired("password")

	userCmd.AddCommand(addCmd, passwdCmd)

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Inspect settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	settingCmd.AddCommand(showCmd)

	rootCmd.AddCommand(runCmd, userCmd, settingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
