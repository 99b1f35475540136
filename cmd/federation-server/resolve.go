package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	domain "stellar-federation/internal/domain/federation"
	"stellar-federation/internal/modules/federation"
	"stellar-federation/internal/pkg/log"
)

var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func resolveCmd() *cobra.Command {
	var (
		queryType string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "resolve <name*domain>",
		Short: "Resolve a federation address against the configured backends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.GetLogger()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			backends, err := federation.OpenBackends(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer backends.Close()

			resolver, err := federation.NewResolver(cfg, backends, logger)
			if err != nil {
				return err
			}

			result, err := resolver.Resolve(ctx, domain.NewQuery(queryType, args[0]))
			if err != nil {
				return fmt.Errorf("resolve failed: %w", err)
			}
			body, err := result.Body()
			if err != nil {
				return err
			}

			status := result.HTTPStatus()
			style := okStyle
			if !result.OK() {
				style = errStyle
			}
			fmt.Printf("%s %s\n", labelStyle.Render("site:"), resolver.SiteHost())
			fmt.Printf("%s %s\n", labelStyle.Render("status:"), style.Render(fmt.Sprintf("%d %s", status, http.StatusText(status))))
			fmt.Println(string(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&queryType, "type", domain.QueryTypeName, "federation query type")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "lookup timeout")
	return cmd
}
