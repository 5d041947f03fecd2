package fetchcli

import (
	"github.com/okian/attrition/pkg/logger"
	"github.com/spf13/cobra"
)

func newPageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page",
		Short: "Load the dashboard page data",
		Long: "Loads employees and the top at-risk ranking. Failures fall back to " +
			"empty collections, so this command always succeeds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pd, status := a.loader.LoadPage(cmd.Context())
			a.log.Info(cmd.Context(), "page loaded",
				logger.String("status", string(status)),
				logger.Int("employees", len(pd.Employees)),
				logger.Int("top_employees", len(pd.TopEmployees)),
			)
			return a.print(pd)
		},
	}
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "get <resource>",
		Short:   "Fetch one named resource as raw JSON",
		Example: "  attrition-fetch get model-info",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.loader.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(raw)
		},
	}
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the prediction service health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.loader.Health(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(h)
		},
	}
}

func newModelInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "model-info",
		Short: "Show the loaded model and its features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mi, err := a.loader.ModelInfo(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(mi)
		},
	}
}

func newTopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Show the top at-risk employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			top, err := a.loader.TopEmployees(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(top)
		},
	}
}

func newEndpointsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoints the data source exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.loader.Endpoints(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(idx)
		},
	}
}
