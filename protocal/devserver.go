package protocal

import (
	"flag"
	"os"
	"os/signal"

	"alto-client/internal/devserver"

	"github.com/sirupsen/logrus"
)

type devServerFlags struct {
	ConfigPath   string
	ENV          string
	SeedEmail    string
	SeedPassword string
}

// ServeDevServer func - runs the in-memory interview API until interrupted
func ServeDevServer() error {
	var flags devServerFlags
	flag.StringVar(&flags.ConfigPath, "config", "./configs", "directory containing config.yaml")
	flag.StringVar(&flags.ENV, "env", "", "the environment to use")
	flag.StringVar(&flags.SeedEmail, "seed-email", "", "create this verified account on startup")
	flag.StringVar(&flags.SeedPassword, "seed-password", "", "password for the seeded account")
	flag.Parse()

	cfg, err := loadConfig(flags.ConfigPath, flags.ENV)
	if err != nil {
		return err
	}
	logrus.Info(cfg.Env)

	srv := devserver.New(cfg.DevServer)
	if flags.SeedEmail != "" {
		if err := srv.SeedUser(flags.SeedEmail, "", flags.SeedPassword); err != nil {
			return err
		}
		logrus.Infof("Seeded account %s", flags.SeedEmail)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			logrus.Println("Gracefull shut down ...")
			if err := srv.Shutdown(); err != nil {
				logrus.Println("Error when shutdown server: ", err)
			}
		}
	}()

	return srv.Listen(":" + cfg.DevServer.Port)
}
