package cli

import (
	"github.com/spf13/cobra"

	"debt-planner/domain"
	"debt-planner/projection"
	"debt-planner/repository"
	"debt-planner/service"
)

func newProjectCommand(e *env) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "project [debt.json]",
		Short: "Project one debt read from a JSON file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var debt domain.Debt
			if err := readInput(cmd, args, &debt); err != nil {
				return err
			}
			if method != "" {
				debt.RepaymentMethod = projection.Method(method)
			}
			// Nothing is persisted from the command line.
			debt.ID = ""

			svc := service.NewProjectionService(
				repository.NewProjectionRepositoryMemory(),
				nil,
				service.WithLogger(e.log),
			)
			p, err := svc.ProjectDebt(cmd.Context(), debt)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", "", "override the repayment method")
	return cmd
}
