package cli

import (
	"github.com/spf13/cobra"

	"debt-planner/domain"
	"debt-planner/service"
)

func newCompareCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [portfolio.json]",
		Short: "Compare snowball and avalanche for debts read from a JSON file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input domain.PortfolioInput
			if err := readInput(cmd, args, &input); err != nil {
				return err
			}
			res, err := service.NewPortfolioService(e.log, nil).Compare(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}
