package get

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	profileCmd "github.com/legaldesk/casectl/internal/cmd/root/profile"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve reports, analyses and records")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to retrieve analysis results and records from the reporting backend.

Charts are drawn for text output; json and yaml print the backend payload.
Tables open in an interactive viewer on terminals and are printed once otherwise.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Show the rainbow chart
		%[1]s get rainbow
		# List the red cases
		%[1]s get rainbow red
		# Show lawsuit production checks
		%[1]s get lawsuit
		# List overdue cases of a lawsuit check
		%[1]s get lawsuit decision45days overdue
		# Show a case card
		%[1]s get case 12345
		# List the tasks of an executor as JSON
		%[1]s get tasks --executor "Иванов И.И." -o json
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.AddCommand(
		newRainbowCmd().Command,
		newTermsCmd(services.Lawsuit).Command,
		newTermsCmd(services.Order).Command,
		newDocumentsCmd().Command,
		newDocumentCmd().Command,
		newTasksCmd().Command,
		newTaskCmd().Command,
		newCaseCmd().Command,
		newCasesCmd().Command,
		newFilesCmd().Command,
		newProcessedDataCmd().Command,
		newTestDataCmd().Command,
		newFilterOptionsCmd().Command,
		newFiltersCmd().Command,
		newAnalysisCmd().Command,
		newThemesCmd().Command,
		profileCmd.NewProfileCmd(),
	)

	return cmd, nil
}
