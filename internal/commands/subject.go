package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studyclock/internal/models"
	"github.com/balkashynov/studyclock/internal/sessionclient"
)

var subjectCmd = &cobra.Command{
	Use:     "subject",
	Aliases: []string{"subjects"},
	Short:   "Manage study subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new subject",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := newClient().CreateSubject(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added subject %q - ID: %s\n", subject.Name, subject.ID)
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List subjects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects, err := newClient().ListSubjects(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(subjects) == 0 {
			fmt.Fprintln(out, "No subjects found. Use 'studyclock subject add \"name\"' to create one.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %s\n", "ID", "NAME")
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, subject := range subjects {
			fmt.Fprintf(out, "%-36s  %s\n", subject.ID, subject.Name)
		}
		return nil
	},
}

// resolveSubject finds a subject by id or name
func resolveSubject(ctx context.Context, client *sessionclient.HTTPClient, ref string) (*models.Subject, error) {
	subjects, err := client.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if subjects[i].ID == ref || strings.EqualFold(subjects[i].Name, ref) {
			return &subjects[i], nil
		}
	}
	return nil, fmt.Errorf("subject %q not found", ref)
}

func init() {
	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectListCmd)
}
