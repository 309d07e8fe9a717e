// Command agentstream-server runs the demo agent backend: a keyword
// router plus scripted LLM fallback, streaming AG-UI events over SSE
// and WebSocket.
package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ag-ui/agentstream/pkg/server"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "agentstream-server",
		Short:        "Streams AG-UI agent events over SSE and WebSocket",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	flags := cmd.Flags()
	flags.String("address", ":8000", "listen address")
	flags.Duration("keepalive", 15*time.Second, "SSE keep-alive comment interval")
	flags.Duration("stream-delay", 30*time.Millisecond, "pacing between streamed text chunks")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("reply", "", "fixed reply for the scripted fallback streamer")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix("AGENTSTREAM")
	viper.AutomaticEnv()

	return cmd
}

func run() error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)

	srv := server.NewServer(server.Config{
		Address:           viper.GetString("address"),
		KeepAliveInterval: viper.GetDuration("keepalive"),
		StreamDelay:       viper.GetDuration("stream-delay"),
		Logger:            log,
		Streamer: &server.ScriptedStreamer{
			Reply: viper.GetString("reply"),
			Delay: viper.GetDuration("stream-delay"),
		},
	})
	return srv.Run()
}
