package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hewenyu/hiisi/pkg/client"
	"github.com/hewenyu/hiisi/pkg/model"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type clientFlags struct {
	addr    string
	timeout time.Duration
	verbose bool
}

func (f *clientFlags) client() (*client.Client, *zap.Logger, error) {
	logger := zap.NewNop()
	if f.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, err
		}
		logger = l
	}
	c, err := client.NewClient(client.Config{
		Addr:    f.addr,
		Timeout: f.timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}

func newRootCommand() *cobra.Command {
	flags := &clientFlags{}
	cmd := &cobra.Command{
		Use:           "hiisi-admin",
		Short:         "hiisi 管理API命令行工具",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&flags.addr, "addr", client.DefaultAddr, "管理API地址")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "请求超时时间 (0 表示不超时)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "输出调试日志")
	cmd.AddCommand(newNamespaceCommand(flags))
	return cmd
}

func newNamespaceCommand(flags *clientFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "namespace",
		Aliases: []string{"ns"},
		Short:   "管理命名空间",
	}
	cmd.AddCommand(newNamespaceCreateCommand(flags))
	return cmd
}

func newNamespaceCreateCommand(flags *clientFlags) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "创建命名空间",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := flags.client()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg := &model.NamespaceConfig{Description: description}
			if err := c.CreateNamespace(cmd.Context(), args[0], cfg); err != nil {
				var se *client.UnexpectedStatusCodeError
				if errors.As(err, &se) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Request URL: %s\n", se.URL)
					fmt.Fprintf(cmd.ErrOrStderr(), "Response headers: %v\n", se.Header)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "命名空间 %s 创建成功\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "命名空间描述")
	return cmd
}
